package cmd

import (
	"fmt"
	"strings"

	"github.com/npillmayer/hilite/highlight"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var withChroma bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages with a grammar",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := pterm.TableData{{"Language", "Aliases"}}
		for _, name := range app.registry.Names() {
			data = append(data, []string{name, strings.Join(app.registry.Aliases(name), ", ")})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, table)
		if withChroma {
			fmt.Fprintf(out, "\nFallback lexers:\n%s\n", strings.Join(highlight.ChromaLanguages(), ", "))
		}
		return nil
	},
}

func init() {
	languagesCmd.Flags().BoolVar(&withChroma, "chroma", false, "also list languages handled by fallback lexers")
	rootCmd.AddCommand(languagesCmd)
}
