// Package analysis reviews extracted comments through an external text
// generator. The generator is the only collaborator: anything that turns a
// prompt into a verdict (a local model, a CLI wrapper, a test fake) can serve.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mvp-joe/corex/internal/extractor"
)

// Template placeholders.
const (
	CommentPlaceholder = "{{comment}}"
	ContextPlaceholder = "{{context}}"
)

var (
	// ErrUnknownMode is returned for an analysis mode other than the two supported ones.
	ErrUnknownMode = errors.New("unknown analysis mode")
	// ErrMissingPlaceholder is returned when a template never mentions the comment.
	ErrMissingPlaceholder = errors.New("template has no " + CommentPlaceholder + " placeholder")
)

// Mode selects which prompt an analyzer builds.
type Mode string

const (
	// WithoutContext sends the comment text alone.
	WithoutContext Mode = "without_context"
	// WithContext also sends the code of the innermost enclosing scope.
	WithContext Mode = "with_context"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.TrimSpace(s)); m {
	case WithoutContext, WithContext:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

const defaultWithoutContextTemplate = `You are reviewing a source code comment.
Report typos, misleading statements, stale TODOs or anything that suggests a bug.
If the comment is fine, answer with the single word "Normal".

Comment:
{{comment}}
`

const defaultWithContextTemplate = `You are reviewing a source code comment together with the code it belongs to.
Report comments that contradict the code, typos, stale TODOs or anything that suggests a bug.
If the comment is fine, answer with the single word "Normal".

Comment:
{{comment}}

Code:
{{context}}
`

// DefaultTemplate returns the built-in prompt for mode.
func DefaultTemplate(mode Mode) string {
	if mode == WithContext {
		return defaultWithContextTemplate
	}
	return defaultWithoutContextTemplate
}

// LoadTemplate reads a prompt template from disk.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(data), nil
}

// Generator turns a prompt into a free-form response.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyzer produces a verdict for one comment.
type Analyzer interface {
	Analyze(ctx context.Context, comment extractor.ExtractedComment) (string, error)
}

// PromptAnalyzer fills a template with a comment (and optionally its scope
// code) and hands the prompt to a Generator.
type PromptAnalyzer struct {
	mode      Mode
	template  string
	generator Generator
}

// NewPromptAnalyzer creates an analyzer. An empty template selects the
// built-in one for mode.
func NewPromptAnalyzer(mode Mode, template string, generator Generator) (*PromptAnalyzer, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if generator == nil {
		return nil, errors.New("generator is required")
	}
	if template == "" {
		template = DefaultTemplate(mode)
	}
	if !strings.Contains(template, CommentPlaceholder) {
		return nil, ErrMissingPlaceholder
	}
	return &PromptAnalyzer{mode: mode, template: template, generator: generator}, nil
}

// Mode returns the analyzer's mode.
func (a *PromptAnalyzer) Mode() Mode {
	return a.mode
}

// Prompt renders the template for comment.
func (a *PromptAnalyzer) Prompt(comment extractor.ExtractedComment) string {
	pairs := []string{CommentPlaceholder, comment.Text}
	if a.mode == WithContext {
		code := ""
		if frame := comment.Context.Innermost(); frame != nil {
			code = frame.Code
		}
		pairs = append(pairs, ContextPlaceholder, code)
	}
	return strings.NewReplacer(pairs...).Replace(a.template)
}

// Analyze renders the prompt and returns the generator's response.
func (a *PromptAnalyzer) Analyze(ctx context.Context, comment extractor.ExtractedComment) (string, error) {
	return a.generator.Generate(ctx, a.Prompt(comment))
}
