package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvp-joe/corex/internal/extractor"
	"github.com/mvp-joe/corex/internal/grammar"
)

var errOutsideRoot = errors.New("path is outside project root")

type projectRoot string

func newProjectRoot(dir string) (projectRoot, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return projectRoot(abs), nil
}

// resolve joins a relative path onto the root and rejects escapes.
func (r projectRoot) resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(string(r), path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(string(r), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, path)
	}
	return path, nil
}

// languageFor returns languageID, or infers one from a file path's suffix.
func languageFor(registry *grammar.Registry, languageID, path string) (string, error) {
	if languageID != "" {
		return languageID, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", errors.New("language parameter is required for directories")
	}
	lang, err := registry.ForPath(path)
	if err != nil {
		return "", err
	}
	return lang.ID, nil
}

// isUserError reports errors that belong in the tool result rather than
// failing the request.
func isUserError(err error) bool {
	return errors.Is(err, grammar.ErrUnsupportedLanguage) ||
		errors.Is(err, extractor.ErrEmptyKeyword) ||
		extractor.IsFileFailure(err) ||
		errors.Is(err, errOutsideRoot) ||
		errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "invalid") ||
		strings.Contains(err.Error(), "required")
}

// marshalToolResponse marshals a response object to JSON and returns it as an MCP tool result.
func marshalToolResponse(response any) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
