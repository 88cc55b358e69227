package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/config"
	"github.com/mvp-joe/corex/internal/extractor"
	"github.com/mvp-joe/corex/internal/grammar"
)

var (
	projectDir string
	verbose    bool

	// cfg is loaded once before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "corex",
	Short: "CoRex - comment extraction and review",
	Long: `CoRex extracts comments and docstrings from source code together with the
functions and classes that enclose them, and can hand each comment to an
external reviewer to flag comments that disagree with the code.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		return setupLogging(os.Stderr, level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "project directory holding .corex/config.yml (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// setupLogging points the global zerolog logger at w with a console writer.
func setupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	return nil
}

// loadConfig loads .corex/config.yml from --dir or the working directory.
func loadConfig() (*config.Config, error) {
	var (
		loaded *config.Config
		err    error
	)
	if projectDir != "" {
		loaded, err = config.LoadConfigFromDir(projectDir)
	} else {
		loaded, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return loaded, nil
}

// extractFlags are the flags shared by commands that run extraction.
type extractFlags struct {
	language string
	workers  int
	ignore   []string
	quiet    bool
}

func (f *extractFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "language identifier or alias (default from config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "files parsed concurrently (default from config)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "additional ignore glob patterns")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "suppress progress output")
}

// apply returns a copy of base with the flags that were set laid over it.
func (f *extractFlags) apply(base *config.Config) *config.Config {
	out := *base
	if f.language != "" {
		out.Extract.Language = f.language
	}
	if f.workers > 0 {
		out.Extract.Workers = f.workers
	}
	out.Extract.Ignore = append(append([]string{}, base.Extract.Ignore...), f.ignore...)
	return &out
}

// newExtractor builds an extractor from configuration.
func newExtractor(settings *config.Config, progress extractor.ProgressReporter) (*extractor.Extractor, error) {
	opts := []extractor.Option{
		extractor.WithWorkers(settings.Extract.Workers),
		extractor.WithIgnore(settings.Extract.Ignore...),
	}
	if settings.Extract.CacheSize > 0 {
		cache, err := extractor.NewCache(settings.Extract.CacheSize)
		if err != nil {
			return nil, err
		}
		opts = append(opts, extractor.WithCache(cache))
	}
	if progress != nil {
		opts = append(opts, extractor.WithProgress(progress))
	}
	return extractor.New(grammar.DefaultRegistry(), opts...), nil
}

// pathArg returns the first argument or ".".
func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
