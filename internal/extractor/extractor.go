package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/corex/internal/grammar"
	"github.com/mvp-joe/corex/internal/syntax"
)

// Extractor turns source files into comment records with scope context.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	registry *grammar.Registry
	workers  int
	ignore   []string
	cache    *Cache
	progress ProgressReporter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWorkers sets how many files are processed concurrently. Values below
// one are treated as one.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithIgnore sets glob patterns, relative to the input directory, for paths
// that are never enumerated.
func WithIgnore(patterns ...string) Option {
	return func(e *Extractor) {
		e.ignore = append(e.ignore, patterns...)
	}
}

// WithCache reuses extractions of unchanged files.
func WithCache(cache *Cache) Option {
	return func(e *Extractor) {
		e.cache = cache
	}
}

// WithProgress reports progress to reporter.
func WithProgress(reporter ProgressReporter) Option {
	return func(e *Extractor) {
		if reporter != nil {
			e.progress = reporter
		}
	}
}

// New creates an Extractor over registry.
func New(registry *grammar.Registry, opts ...Option) *Extractor {
	e := &Extractor{
		registry: registry,
		workers:  1,
		progress: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the extractor resolves languages with.
func (e *Extractor) Registry() *grammar.Registry {
	return e.registry
}

type fileOutcome struct {
	extraction FileExtraction
	failure    *FileFailure
}

// Extract processes a file or directory. An unknown language fails before
// anything is read. Per-file read and parse problems are collected in
// Result.Failures and never stop the other files; files appear in the result
// in enumeration order regardless of the worker count.
func (e *Extractor) Extract(ctx context.Context, path, languageID string) (*Result, error) {
	start := time.Now()

	lang, err := e.registry.Resolve(languageID)
	if err != nil {
		return nil, err
	}

	e.progress.OnDiscoveryStart()
	files, walkFailures, err := Enumerate(path, lang.Suffixes, e.ignore)
	if err != nil {
		return nil, err
	}
	e.progress.OnDiscoveryComplete(len(files))

	outcomes := make([]fileOutcome, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			extraction, failure := e.extractPath(gctx, lang, file)
			outcomes[i] = fileOutcome{extraction: extraction, failure: failure}
			e.progress.OnFileProcessed(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Files:    make([]FileExtraction, 0, len(files)),
		Failures: walkFailures,
	}
	for _, outcome := range outcomes {
		if outcome.failure != nil {
			log.Warn().Err(outcome.failure.Err).Str("file", outcome.failure.File).Msg("Skipping file")
			result.Failures = append(result.Failures, *outcome.failure)
			continue
		}
		result.Files = append(result.Files, outcome.extraction)
	}

	e.progress.OnComplete(&Stats{
		FilesProcessed: len(result.Files),
		FilesFailed:    len(result.Failures),
		TotalComments:  result.TotalComments(),
		Duration:       time.Since(start),
	})

	return result, nil
}

// ExtractFile processes a single file. Read and parse problems are returned
// as errors wrapping ErrFileRead or ErrParse.
func (e *Extractor) ExtractFile(ctx context.Context, path, languageID string) (*FileExtraction, error) {
	lang, err := e.registry.Resolve(languageID)
	if err != nil {
		return nil, err
	}

	extraction, failure := e.extractPath(ctx, lang, path)
	if failure != nil {
		return nil, failure
	}
	return &extraction, nil
}

// ExtractSource processes in-memory source. name is reported as the file.
func (e *Extractor) ExtractSource(ctx context.Context, name, languageID string, source []byte) (*FileExtraction, error) {
	lang, err := e.registry.Resolve(languageID)
	if err != nil {
		return nil, err
	}

	extraction, failure := e.extractContent(ctx, lang, name, source)
	if failure != nil {
		return nil, failure
	}
	return &extraction, nil
}

func (e *Extractor) extractPath(ctx context.Context, lang *grammar.Language, path string) (FileExtraction, *FileFailure) {
	content, err := os.ReadFile(path)
	if err != nil {
		failure := readFailure(path, err)
		return FileExtraction{}, &failure
	}
	return e.extractContent(ctx, lang, path, content)
}

func (e *Extractor) extractContent(ctx context.Context, lang *grammar.Language, path string, content []byte) (FileExtraction, *FileFailure) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(lang.ID, path, content); ok {
			log.Debug().Str("file", path).Msg("Extraction cache hit")
			return cached, nil
		}
	}

	tree, err := lang.Parse(ctx, content)
	if err != nil {
		failure := parseFailure(path, err)
		return FileExtraction{}, &failure
	}

	extraction := extractTree(tree, NewSourceUnit(path, content), lang.ID)

	if extraction.Degraded {
		log.Warn().
			Str("file", path).
			Int("error_nodes", extraction.ErrorNodes).
			Msg("Parsed with syntax errors, results may be incomplete")
	}

	if e.cache != nil {
		e.cache.Set(lang.ID, path, content, extraction)
		log.Debug().Str("file", path).Int("cached", e.cache.size()).Msg("Extraction cached")
	}
	return extraction, nil
}

// extractTree classifies every comment in tree and resolves its context.
func extractTree(tree *syntax.Tree, src *SourceUnit, languageID string) FileExtraction {
	classified := Classify(tree)
	comments := make([]ExtractedComment, 0, len(classified))

	for _, c := range classified {
		scope := ResolveContext(tree, src, c.Anchor)
		for _, frame := range scope.Frames {
			if frame.Name == nil {
				log.Debug().
					Str("file", src.Path).
					Str("frame", frame.Kind.String()).
					Int("line", frame.StartLine).
					Msg("Definition without a name identifier")
			}
		}

		comments = append(comments, ExtractedComment{
			Kind:      c.Kind,
			Text:      tree.Text(c.Node),
			StartLine: tree.StartLine(c.Node),
			EndLine:   tree.EndLine(c.Node),
			Context:   scope,
		})
	}

	errorNodes := tree.ErrorCount()
	return FileExtraction{
		File:          src.Path,
		Language:      languageID,
		TotalComments: len(comments),
		Comments:      comments,
		Degraded:      errorNodes > 0,
		ErrorNodes:    errorNodes,
	}
}

// IsFileFailure reports whether err is a per-file failure rather than a
// failure of the whole call.
func IsFileFailure(err error) bool {
	return errors.Is(err, ErrFileRead) || errors.Is(err, ErrParse)
}

// String renders a short summary, e.g. "3 files, 12 comments, 1 failed".
func (r *Result) String() string {
	return fmt.Sprintf("%d files, %d comments, %d failed", len(r.Files), r.TotalComments(), len(r.Failures))
}
