package cmd

import (
	"fmt"
	"strings"

	"github.com/npillmayer/hilite"
	"github.com/npillmayer/hilite/render"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var asTree bool

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "List the tokens of the input",
	Long: `List the tokens of the input, one leaf token per line, prefixed by
the path of token kinds leading to it. With --tree the nested token
structure is printed as a tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		lang := language(args)
		tokens, source := app.highlighter.Tokens(lang, src)
		tracer().Infof("%d tokens for language %q (%s)", len(tokens), lang, source)
		if asTree {
			tree, err := pterm.DefaultTree.WithRoot(render.Tree(tokens)).Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tree)
			return err
		}
		out := cmd.OutOrStdout()
		for _, leaf := range hilite.Flatten(tokens) {
			fmt.Fprintf(out, "%-10s %-40s %q\n", leaf.Span, kindPath(leaf.Path), leaf.Text)
		}
		return nil
	},
}

func kindPath(path []hilite.Kind) string {
	var b strings.Builder
	for i, k := range path {
		if i > 0 {
			b.WriteByte('/')
		}
		b.WriteString(string(k))
	}
	return b.String()
}

func init() {
	tokensCmd.Flags().BoolVar(&asTree, "tree", false, "print tokens as a tree")
	rootCmd.AddCommand(tokensCmd)
}
