package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/hilite/markdown"
	"github.com/npillmayer/hilite/render"
	"github.com/spf13/cobra"
)

var mdFormat string

var markdownCmd = &cobra.Command{
	Use:   "markdown [file]",
	Short: "Highlight the fenced code blocks of a Markdown document",
	Long: `Highlight the fenced code blocks of a Markdown document. The language
of a block is taken from the info string of its opening fence; blocks
without one use --lang or the configured default language. Text outside
of code blocks is copied unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		var fn markdown.HighlightFunc
		switch mdFormat {
		case "html":
			fn = htmlBlock
		case "term":
			theme, err := selectedTheme()
			if err != nil {
				return err
			}
			fn = termBlock(theme)
		default:
			return fmt.Errorf("unknown output format %q", mdFormat)
		}
		out, err := markdown.Highlight(cmd.Context(), doc, fn)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

func blockLanguage(b markdown.Block) string {
	if b.Lang != "" {
		return b.Lang
	}
	if langName != "" {
		return langName
	}
	return app.cfg.DefaultLanguage
}

func htmlBlock(ctx context.Context, b markdown.Block) (string, error) {
	lang := blockLanguage(b)
	tokens, _ := app.highlighter.Tokens(lang, b.Code)
	return render.HTMLString(tokens, render.HTMLOptions{
		ClassPrefix: app.cfg.ClassPrefix,
		Language:    lang,
	}) + "\n", nil
}

func termBlock(theme render.Theme) markdown.HighlightFunc {
	return func(ctx context.Context, b markdown.Block) (string, error) {
		tokens, _ := app.highlighter.Tokens(blockLanguage(b), b.Code)
		var out strings.Builder
		if err := render.Terminal(&out, tokens, theme); err != nil {
			return "", err
		}
		return b.Open + out.String() + b.Close, nil
	}
}

func init() {
	markdownCmd.Flags().StringVar(&mdFormat, "format", "html", "output format for code blocks [html|term]")
	rootCmd.AddCommand(markdownCmd)
}
