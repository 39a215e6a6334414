package cmd

import (
	"fmt"

	"github.com/npillmayer/hilite/render"
	"github.com/spf13/cobra"
)

var themeName string

var termCmd = &cobra.Command{
	Use:   "term [file]",
	Short: "Print the input highlighted for a terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		theme, err := selectedTheme()
		if err != nil {
			return err
		}
		src, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		tokens, _ := app.highlighter.Tokens(language(args), src)
		return render.Terminal(cmd.OutOrStdout(), tokens, theme)
	},
}

// selectedTheme returns the theme named by --theme or by the configuration.
func selectedTheme() (render.Theme, error) {
	name := app.cfg.Theme
	if themeName != "" {
		name = themeName
	}
	theme, ok := render.ThemeByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q, known themes are %v", name, render.ThemeNames())
	}
	return theme, nil
}

func init() {
	termCmd.Flags().StringVar(&themeName, "theme", "", "terminal color theme")
	rootCmd.AddCommand(termCmd)
}
