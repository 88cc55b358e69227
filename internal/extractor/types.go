package extractor

import (
	"encoding/json"
	"fmt"
)

// CommentKind distinguishes line/block comments from docstrings.
type CommentKind int

const (
	LineComment CommentKind = iota
	DocString
)

func (k CommentKind) String() string {
	switch k {
	case LineComment:
		return "comment"
	case DocString:
		return "docstring"
	default:
		return fmt.Sprintf("CommentKind(%d)", int(k))
	}
}

// MarshalText renders the kind as "comment" or "docstring".
func (k CommentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FrameKind is the kind of an enclosing scope.
type FrameKind int

const (
	FunctionFrame FrameKind = iota
	ClassFrame
)

func (k FrameKind) String() string {
	switch k {
	case FunctionFrame:
		return "function"
	case ClassFrame:
		return "class"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// Frame describes one enclosing function or class.
type Frame struct {
	Kind FrameKind
	// Name is nil for anonymous definitions or when no identifier child exists.
	Name *string
	// Parameters is always empty for classes.
	Parameters []string
	StartLine  int
	EndLine    int
	// Code is the verbatim text of lines StartLine..EndLine.
	Code string
}

// DisplayName returns the frame name or "<anonymous>".
func (f Frame) DisplayName() string {
	if f.Name == nil {
		return "<anonymous>"
	}
	return *f.Name
}

type frameJSON struct {
	Type       string    `json:"type"`
	Name       *string   `json:"name"`
	Parameters *[]string `json:"parameters,omitempty"`
	StartLine  int       `json:"start_line"`
	EndLine    int       `json:"end_line"`
	Code       string    `json:"code"`
}

// MarshalJSON emits parameters for functions only, matching the frame shape
// downstream consumers expect.
func (f Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		Type:      f.Kind.String(),
		Name:      f.Name,
		StartLine: f.StartLine,
		EndLine:   f.EndLine,
		Code:      f.Code,
	}
	if f.Kind == FunctionFrame {
		params := f.Parameters
		if params == nil {
			params = []string{}
		}
		out.Parameters = &params
	}
	return json.Marshal(out)
}

// ContextShape is the external shape of a Context.
type ContextShape int

const (
	// ShapeModule means the comment is not nested in any function or class.
	ShapeModule ContextShape = iota
	// ShapeSingle means exactly one enclosing scope.
	ShapeSingle
	// ShapeChain means two or more nested scopes.
	ShapeChain
)

func (s ContextShape) String() string {
	switch s {
	case ShapeModule:
		return "module"
	case ShapeSingle:
		return "single"
	case ShapeChain:
		return "chain"
	default:
		return fmt.Sprintf("ContextShape(%d)", int(s))
	}
}

// Context is the scope chain of a comment, outermost frame first. The shape is
// derived from the number of frames, so a chain can never hold a single frame.
type Context struct {
	Frames []Frame
}

// Shape returns Module, Single or Chain for zero, one, or more frames.
func (c Context) Shape() ContextShape {
	switch len(c.Frames) {
	case 0:
		return ShapeModule
	case 1:
		return ShapeSingle
	default:
		return ShapeChain
	}
}

// Depth returns the number of enclosing scopes.
func (c Context) Depth() int {
	return len(c.Frames)
}

// Innermost returns the nearest enclosing frame, or nil at module scope.
func (c Context) Innermost() *Frame {
	if len(c.Frames) == 0 {
		return nil
	}
	return &c.Frames[len(c.Frames)-1]
}

// MarshalJSON renders {"type":"module","name":null}, a bare frame object, or
// {"chain":[...]} depending on the shape.
func (c Context) MarshalJSON() ([]byte, error) {
	switch c.Shape() {
	case ShapeModule:
		return []byte(`{"type":"module","name":null}`), nil
	case ShapeSingle:
		return json.Marshal(c.Frames[0])
	default:
		return json.Marshal(struct {
			Chain []Frame `json:"chain"`
		}{Chain: c.Frames})
	}
}

// ExtractedComment is one comment or docstring with its scope context.
type ExtractedComment struct {
	Kind      CommentKind `json:"kind"`
	Text      string      `json:"text"`
	StartLine int         `json:"start_line"`
	EndLine   int         `json:"end_line"`
	Context   Context     `json:"context"`
}

// FileExtraction holds every comment of one file in source order.
type FileExtraction struct {
	File          string             `json:"file"`
	Language      string             `json:"language"`
	TotalComments int                `json:"total_comments"`
	Comments      []ExtractedComment `json:"comments"`
	// Degraded is set when the parser recovered from syntax errors.
	Degraded   bool `json:"degraded,omitempty"`
	ErrorNodes int  `json:"error_nodes,omitempty"`
}

// Result is the outcome of one Extract call: successful files in enumeration
// order plus the files that could not be processed.
type Result struct {
	Files    []FileExtraction `json:"files"`
	Failures []FileFailure    `json:"failures,omitempty"`
}

// TotalComments sums comment counts over all files.
func (r *Result) TotalComments() int {
	total := 0
	for _, f := range r.Files {
		total += f.TotalComments
	}
	return total
}
