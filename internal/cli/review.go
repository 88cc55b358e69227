package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/analysis"
	"github.com/mvp-joe/corex/internal/config"
)

var (
	reviewOpts extractFlags
	reviewArgs reviewOutput
	reviewGen  struct {
		mode     string
		command  string
		args     []string
		template string
		marker   string
	}
)

// reviewOutput says where and how the report is written.
type reviewOutput struct {
	path   string
	format string
	quiet  bool
}

var errNoGenerator = errors.New("no generator command configured: set analysis.command or pass --command")

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review [path]",
	Short: "Ask an external reviewer whether each comment matches its code",
	Long: `Extract comments and send each one, optionally with the code of its
innermost enclosing scope, to an external generator command. The prompt is
written to the command's stdin and its stdout is the verdict. Verdicts
containing the normal marker are dropped; the rest are reported.

Examples:
  corex review src/ -l python --command llm --args "-m,local"
  corex review main.c -l c --mode with_context --output report.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		settings := reviewOpts.apply(cfg)
		applyReviewFlags(cmd, settings)
		output := reviewArgs
		output.quiet = reviewOpts.quiet
		return executeReview(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), settings, pathArg(args), output)
	},
}

func init() {
	reviewOpts.register(reviewCmd)
	f := reviewCmd.Flags()
	f.StringVar(&reviewGen.mode, "mode", "", "analysis mode: without_context or with_context (default from config)")
	f.StringVar(&reviewGen.command, "command", "", "generator command reading the prompt on stdin")
	f.StringSliceVar(&reviewGen.args, "args", nil, "arguments passed to the generator command")
	f.StringVar(&reviewGen.template, "template", "", "prompt template file")
	f.StringVar(&reviewGen.marker, "marker", "", "verdict text marking a comment as normal")
	f.StringVarP(&reviewArgs.path, "output", "o", "", "append the report to this file instead of stdout")
	f.StringVar(&reviewArgs.format, "format", "text", "report format: text or json")
	rootCmd.AddCommand(reviewCmd)
}

// applyReviewFlags lays the review flags that were set over settings.
func applyReviewFlags(cmd *cobra.Command, settings *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		settings.Analysis.Mode = reviewGen.mode
	}
	if flags.Changed("command") {
		settings.Analysis.Command = reviewGen.command
	}
	if flags.Changed("args") {
		settings.Analysis.Args = reviewGen.args
	}
	if flags.Changed("template") {
		settings.Analysis.TemplatePath = reviewGen.template
	}
	if flags.Changed("marker") {
		settings.Analysis.NormalMarker = reviewGen.marker
	}
}

// newAnalyzer builds the prompt analyzer described by settings.
func newAnalyzer(settings config.AnalysisConfig, generator analysis.Generator) (*analysis.PromptAnalyzer, error) {
	mode, err := analysis.ParseMode(settings.Mode)
	if err != nil {
		return nil, err
	}

	var template string
	if settings.TemplatePath != "" {
		template, err = analysis.LoadTemplate(settings.TemplatePath)
		if err != nil {
			return nil, err
		}
	}
	return analysis.NewPromptAnalyzer(mode, template, generator)
}

func executeReview(ctx context.Context, out, progressOut io.Writer, settings *config.Config, path string, output reviewOutput) error {
	if settings.Analysis.Command == "" {
		return errNoGenerator
	}
	if err := validateFormat(output.format); err != nil {
		return err
	}

	generator, err := analysis.NewCommandGenerator(settings.Analysis.Command, settings.Analysis.Args, settings.Analysis.Timeout)
	if err != nil {
		return err
	}
	analyzer, err := newAnalyzer(settings.Analysis, generator)
	if err != nil {
		return err
	}

	ex, err := newExtractor(settings, NewCLIProgressReporter(progressOut, output.quiet))
	if err != nil {
		return err
	}

	result, err := ex.Extract(ctx, path, settings.Extract.Language)
	if err != nil {
		return err
	}

	report, err := analysis.NewReviewer(analyzer, settings.Analysis.NormalMarker).Review(ctx, settings.Extract.Language, result)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", report.RunID).
		Int("analyzed", report.Analyzed).
		Int("findings", len(report.Findings)).
		Int("failed", len(report.Failures)).
		Msg("Review complete")

	if output.path != "" {
		return appendReport(output.path, report, output.format)
	}
	return writeReport(out, report, output.format)
}

// appendReport appends the report to the file at path, creating it if needed.
func appendReport(path string, report *analysis.Report, format string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open report file: %w", err)
	}
	if err := writeReport(file, report, format); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "":
		return nil
	}
	return fmt.Errorf("invalid report format %q: expected text or json", format)
}

func writeReport(out io.Writer, report *analysis.Report, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(out, report, true)
	}
	return report.WriteText(out)
}
