package extractor

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/corex/internal/grammar"
	"github.com/mvp-joe/corex/internal/syntax"
)

// KeywordMatch is one source line containing a keyword, with the scope of
// the smallest node at the match position.
type KeywordMatch struct {
	File    string `json:"file"`
	Text    string `json:"text"`
	Keyword string `json:"keyword"`
	// StartLine and EndLine are 1-indexed and equal; a match never spans lines.
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
	// Columns are 0-indexed byte offsets; ColumnEnd is exclusive.
	ColumnStart int     `json:"column_start"`
	ColumnEnd   int     `json:"column_end"`
	Context     Context `json:"context"`
}

// KeywordResult is the outcome of one LocateKeyword call.
type KeywordResult struct {
	Keyword  string         `json:"keyword"`
	Matches  []KeywordMatch `json:"matches"`
	Failures []FileFailure  `json:"failures,omitempty"`
}

// LocateKeyword finds the first occurrence of keyword on every line of the
// files under path. Unlike comment extraction, the node under the match
// contributes its own frame, so a match on a definition line belongs to that
// definition.
func (e *Extractor) LocateKeyword(ctx context.Context, path, languageID, keyword string) (*KeywordResult, error) {
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	lang, err := e.registry.Resolve(languageID)
	if err != nil {
		return nil, err
	}

	files, failures, err := Enumerate(path, lang.Suffixes, e.ignore)
	if err != nil {
		return nil, err
	}

	result := &KeywordResult{
		Keyword:  keyword,
		Matches:  []KeywordMatch{},
		Failures: failures,
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, failure := locateInFile(ctx, lang, file, keyword)
		if failure != nil {
			log.Warn().Err(failure.Err).Str("file", file).Msg("Skipping file")
			result.Failures = append(result.Failures, *failure)
			continue
		}
		result.Matches = append(result.Matches, matches...)
	}

	return result, nil
}

func locateInFile(ctx context.Context, lang *grammar.Language, path, keyword string) ([]KeywordMatch, *FileFailure) {
	content, err := os.ReadFile(path)
	if err != nil {
		failure := readFailure(path, err)
		return nil, &failure
	}

	src := NewSourceUnit(path, content)
	if !strings.Contains(string(content), keyword) {
		return nil, nil
	}

	tree, err := lang.Parse(ctx, content)
	if err != nil {
		failure := parseFailure(path, err)
		return nil, &failure
	}

	return locateInTree(tree, src, keyword), nil
}

func locateInTree(tree *syntax.Tree, src *SourceUnit, keyword string) []KeywordMatch {
	var matches []KeywordMatch
	for i, line := range src.Lines {
		column := strings.Index(line, keyword)
		if column < 0 {
			continue
		}

		scope := Context{}
		if node := tree.SmallestAt(i, column); node != syntax.NoNode {
			scope = contextFrom(tree, src, node)
		}

		matches = append(matches, KeywordMatch{
			File:        src.Path,
			Text:        strings.TrimSpace(line),
			Keyword:     keyword,
			StartLine:   i + 1,
			EndLine:     i + 1,
			ColumnStart: column,
			ColumnEnd:   column + len(keyword),
			Context:     scope,
		})
	}
	return matches
}
