package cmd

import (
	"github.com/npillmayer/hilite/render"
	"github.com/spf13/cobra"
)

var bare bool

var htmlCmd = &cobra.Command{
	Use:   "html [file]",
	Short: "Render the input as HTML with Prism-compatible classes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		lang := language(args)
		tokens, _ := app.highlighter.Tokens(lang, src)
		opts := render.HTMLOptions{ClassPrefix: app.cfg.ClassPrefix}
		if !bare {
			opts.Language = lang
		}
		return render.HTML(cmd.OutOrStdout(), tokens, opts)
	},
}

func init() {
	htmlCmd.Flags().BoolVar(&bare, "bare", false, "omit the enclosing <pre><code> elements")
	rootCmd.AddCommand(htmlCmd)
}
