package extractor

import "strings"

// SourceUnit is one file's bytes plus a 1-indexed line view of them.
type SourceUnit struct {
	Path    string
	Content []byte
	Lines   []string
}

// NewSourceUnit splits content on "\n"; a trailing newline yields a final empty line.
func NewSourceUnit(path string, content []byte) *SourceUnit {
	return &SourceUnit{
		Path:    path,
		Content: content,
		Lines:   strings.Split(string(content), "\n"),
	}
}

// Snippet joins lines startLine..endLine (1-indexed, inclusive), clamping the
// end to the last line.
func (s *SourceUnit) Snippet(startLine, endLine int) string {
	if startLine < 1 || endLine < startLine || startLine > len(s.Lines) {
		return ""
	}

	end := endLine
	if end > len(s.Lines) {
		end = len(s.Lines)
	}

	return strings.Join(s.Lines[startLine-1:end], "\n")
}
