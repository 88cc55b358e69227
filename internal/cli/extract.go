package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/config"
	"github.com/mvp-joe/corex/internal/extractor"
	"github.com/mvp-joe/corex/internal/watcher"
)

var (
	extractOpts  extractFlags
	extractWatch bool
	extractDense bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [path]",
	Short: "Extract comments and docstrings with their enclosing scopes",
	Long: `Extract every comment and docstring from a file or directory and print them
as JSON, each with the chain of enclosing functions and classes.

Files that cannot be read or parsed are reported and skipped; the rest of the
run continues.

Examples:
  corex extract src/ --language python
  corex extract main.c -l c --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings := extractOpts.apply(cfg)
		return executeExtract(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), settings, pathArg(args), extractWatch, !extractDense, extractOpts.quiet)
	},
}

func init() {
	extractOpts.register(extractCmd)
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "re-extract changed files until interrupted")
	extractCmd.Flags().BoolVar(&extractDense, "compact", false, "print compact JSON")
	rootCmd.AddCommand(extractCmd)
}

func executeExtract(ctx context.Context, out, progressOut io.Writer, settings *config.Config, path string, watch, pretty, quiet bool) error {
	var progress extractor.ProgressReporter = &extractor.NoOpProgressReporter{}
	if !quiet && !watch {
		progress = NewCLIProgressReporter(progressOut, false)
	}

	ex, err := newExtractor(settings, progress)
	if err != nil {
		return err
	}

	result, err := ex.Extract(ctx, path, settings.Extract.Language)
	if err != nil {
		return err
	}
	if err := writeJSON(out, result, pretty); err != nil {
		return err
	}

	if !watch {
		return nil
	}
	return watchAndExtract(ctx, out, ex, settings, path, pretty)
}

// watchAndExtract prints a fresh FileExtraction for every changed file until
// ctx is done. Removed files are logged.
func watchAndExtract(ctx context.Context, out io.Writer, ex *extractor.Extractor, settings *config.Config, path string, pretty bool) error {
	lang, err := ex.Registry().Resolve(settings.Extract.Language)
	if err != nil {
		return err
	}

	opts := []watcher.Option{}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		discovery, err := extractor.NewFileDiscovery(path, lang.Suffixes, settings.Extract.Ignore)
		if err != nil {
			return err
		}
		opts = append(opts, watcher.WithFilter(func(p string) bool { return !discovery.Ignored(p) }))
	}

	fw, err := watcher.NewFileWatcher(path, lang.Suffixes, opts...)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		for _, file := range files {
			if _, statErr := os.Stat(file); errors.Is(statErr, os.ErrNotExist) {
				log.Info().Str("file", file).Msg("File removed")
				continue
			}
			extraction, err := ex.ExtractFile(ctx, file, lang.ID)
			if err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Skipping file")
				continue
			}
			if err := writeJSON(out, extraction, pretty); err != nil {
				log.Error().Err(err).Msg("Failed to write extraction")
			}
		}
	})
	if err != nil {
		return err
	}

	log.Info().Str("path", filepath.Clean(path)).Msg("Watching for changes, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func writeJSON(out io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
