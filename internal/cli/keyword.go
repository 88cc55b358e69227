package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/config"
)

var keywordOpts extractFlags

// keywordCmd represents the keyword command
var keywordCmd = &cobra.Command{
	Use:   "keyword <keyword> [path]",
	Short: "Locate a keyword and report the scopes enclosing each match",
	Long: `Find every line containing a keyword and print the functions and classes
enclosing each match as JSON. A match on a definition line belongs to that
definition.

Examples:
  corex keyword TODO src/ --language python
  corex keyword malloc lib/ -l c`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := keywordOpts.apply(cfg)
		return executeKeyword(cmd.Context(), cmd.OutOrStdout(), settings, args[0], pathArg(args[1:]))
	},
}

func init() {
	keywordOpts.register(keywordCmd)
	rootCmd.AddCommand(keywordCmd)
}

func executeKeyword(ctx context.Context, out io.Writer, settings *config.Config, keyword, path string) error {
	ex, err := newExtractor(settings, nil)
	if err != nil {
		return err
	}

	result, err := ex.LocateKeyword(ctx, path, settings.Extract.Language, keyword)
	if err != nil {
		return err
	}
	return writeJSON(out, result, true)
}
