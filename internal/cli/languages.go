package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/corex/internal/grammar"
)

// languagesCmd represents the languages command
var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported languages, aliases and file suffixes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printLanguages(cmd.OutOrStdout(), grammar.DefaultRegistry())
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func printLanguages(out io.Writer, registry *grammar.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LANGUAGE\tALIASES\tSUFFIXES")
	for _, lang := range registry.Languages() {
		aliases := strings.Join(lang.Aliases, ", ")
		if aliases == "" {
			aliases = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", lang.ID, aliases, strings.Join(lang.Suffixes, " "))
	}
	return tw.Flush()
}
