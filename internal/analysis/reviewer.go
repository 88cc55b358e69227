package analysis

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/corex/internal/extractor"
)

// DefaultNormalMarker is the verdict substring meaning "nothing to report".
const DefaultNormalMarker = "Normal"

// Finding is a comment the analyzer flagged.
type Finding struct {
	File      string `json:"file"`
	Comment   string `json:"comment"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Verdict   string `json:"verdict"`
}

// Report is the outcome of one review run.
type Report struct {
	RunID    string    `json:"run_id"`
	Language string    `json:"language"`
	Started  time.Time `json:"started"`
	Findings []Finding `json:"findings"`
	// Analyzed counts comments sent to the analyzer.
	Analyzed int `json:"analyzed"`
	// Skipped counts files without any comment.
	Skipped int `json:"skipped"`
	// Failures are files that could not be read or parsed.
	Failures []extractor.FileFailure `json:"failures,omitempty"`
}

// WriteText renders findings, then failed files, as plain-text blocks
// separated by a rule.
func (r *Report) WriteText(w io.Writer) error {
	rule := strings.Repeat("=", 80)
	for _, f := range r.Findings {
		if _, err := fmt.Fprintf(w, "File: %s\nComment: %s\nAnalysis Result:\n%s\n%s\n", f.File, f.Comment, f.Verdict, rule); err != nil {
			return err
		}
	}
	for _, f := range r.Failures {
		if _, err := fmt.Fprintf(w, "File: %s\nNot analyzed (%s error):\n%v\n%s\n", f.File, f.Kind, f.Err, rule); err != nil {
			return err
		}
	}
	return nil
}

// Reviewer sends every extracted comment to an Analyzer and keeps the
// verdicts that do not contain the normal marker.
type Reviewer struct {
	analyzer Analyzer
	marker   string
}

// NewReviewer creates a reviewer. An empty marker uses DefaultNormalMarker.
func NewReviewer(analyzer Analyzer, marker string) *Reviewer {
	if marker == "" {
		marker = DefaultNormalMarker
	}
	return &Reviewer{analyzer: analyzer, marker: marker}
}

// Review analyzes every comment of result in order. Analyzer errors abort the
// run and are returned wrapped.
func (r *Reviewer) Review(ctx context.Context, language string, result *extractor.Result) (*Report, error) {
	report := &Report{
		RunID:    uuid.NewString(),
		Language: language,
		Started:  time.Now(),
		Findings: []Finding{},
		Failures: result.Failures,
	}

	for _, file := range result.Files {
		log.Info().Str("run", report.RunID).Str("file", file.File).Int("comments", file.TotalComments).Msg("Reviewing file")
		if file.TotalComments == 0 {
			log.Warn().Str("file", file.File).Msg("No comments found")
			report.Skipped++
			continue
		}

		for _, comment := range file.Comments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			verdict, err := r.analyzer.Analyze(ctx, comment)
			if err != nil {
				return nil, fmt.Errorf("analyze %s:%d: %w", file.File, comment.StartLine, err)
			}
			report.Analyzed++

			if strings.Contains(verdict, r.marker) {
				continue
			}
			report.Findings = append(report.Findings, Finding{
				File:      file.File,
				Comment:   comment.Text,
				StartLine: comment.StartLine,
				EndLine:   comment.EndLine,
				Verdict:   verdict,
			})
		}
	}

	return report, nil
}
