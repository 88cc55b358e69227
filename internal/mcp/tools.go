package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/corex/internal/extractor"
	mcputils "github.com/mvp-joe/corex/internal/mcp-utils"
)

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ExtractRequest is the argument set of corex_extract_comments.
type ExtractRequest struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
}

// KeywordRequest is the argument set of corex_locate_keyword.
type KeywordRequest struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Keyword  string `json:"keyword"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	ID       string   `json:"id"`
	Aliases  []string `json:"aliases"`
	Suffixes []string `json:"suffixes"`
}

// AddCorexExtractTool registers the corex_extract_comments tool.
func AddCorexExtractTool(s *server.MCPServer, ex *extractor.Extractor, root projectRoot) {
	tool := mcp.NewTool(
		"corex_extract_comments",
		mcp.WithDescription(`Extract every comment and docstring from a file or directory, each with the chain of enclosing functions and classes (name, parameters, line span and code).

Use to review what code comments claim next to the code they describe. Context is {"type":"module","name":null} at file scope, a single frame object inside one scope, or {"chain":[...]} outermost first.`),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File or directory, relative to the project root")),
		mcp.WithString("language",
			mcp.Description("Language id or alias (python, c, cpp, java, ruby, php, go, ...). Optional for single files, inferred from the suffix")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createExtractHandler(ex, root))
}

func createExtractHandler(ex *extractor.Extractor, root projectRoot) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]any); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req ExtractRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}

		result, err := func() (*extractor.Result, error) {
			path, err := root.resolve(req.Path)
			if err != nil {
				return nil, err
			}
			language, err := languageFor(ex.Registry(), req.Language, path)
			if err != nil {
				return nil, err
			}
			return ex.Extract(ctx, path, language)
		}()
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return marshalToolResponse(result)
	}
}

// AddCorexKeywordTool registers the corex_locate_keyword tool.
func AddCorexKeywordTool(s *server.MCPServer, ex *extractor.Extractor, root projectRoot) {
	tool := mcp.NewTool(
		"corex_locate_keyword",
		mcp.WithDescription("Find every source line containing a keyword (e.g. TODO, FIXME, a function name) and report the enclosing functions and classes of each match. A match on a definition line belongs to that definition."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File or directory, relative to the project root")),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("Case-sensitive text to find; the first occurrence per line is reported")),
		mcp.WithString("language",
			mcp.Description("Language id or alias. Optional for single files")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createKeywordHandler(ex, root))
}

func createKeywordHandler(ex *extractor.Extractor, root projectRoot) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]any); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req KeywordRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}
		if req.Path == "" {
			return mcp.NewToolResultError("path parameter is required"), nil
		}
		if req.Keyword == "" {
			return mcp.NewToolResultError("keyword parameter is required"), nil
		}

		result, err := func() (*extractor.KeywordResult, error) {
			path, err := root.resolve(req.Path)
			if err != nil {
				return nil, err
			}
			language, err := languageFor(ex.Registry(), req.Language, path)
			if err != nil {
				return nil, err
			}
			return ex.LocateKeyword(ctx, path, language, req.Keyword)
		}()
		if err != nil {
			if isUserError(err) {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return nil, err
		}

		return marshalToolResponse(result)
	}
}

// AddCorexLanguagesTool registers the corex_languages tool.
func AddCorexLanguagesTool(s *server.MCPServer, ex *extractor.Extractor) {
	tool := mcp.NewTool(
		"corex_languages",
		mcp.WithDescription("List the languages comment extraction supports, with aliases and file suffixes."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createLanguagesHandler(ex))
}

func createLanguagesHandler(ex *extractor.Extractor) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		languages := ex.Registry().Languages()
		out := make([]LanguageInfo, 0, len(languages))
		for _, lang := range languages {
			aliases := lang.Aliases
			if aliases == nil {
				aliases = []string{}
			}
			out = append(out, LanguageInfo{ID: lang.ID, Aliases: aliases, Suffixes: lang.Suffixes})
		}
		return marshalToolResponse(out)
	}
}
