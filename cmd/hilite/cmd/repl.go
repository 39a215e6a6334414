package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/hilite/render"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var initFile string

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Tokenize lines interactively",
	Long: `Start an interactive session. Every input line is tokenized and shown
highlighted, together with its token tree. Lines starting with a colon
are commands:

    :lang <name>     switch the language
    :theme <name>    switch the terminal theme
    :tree            toggle the display of token trees
    :quit            end the session

Quit with <ctrl>D.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		theme, err := selectedTheme()
		if err != nil {
			return err
		}
		repl, err := readline.New("hilite> ")
		if err != nil {
			return err
		}
		defer repl.Close()
		intp := &Intp{
			lang:     language(nil),
			theme:    theme,
			showTree: true,
			repl:     repl,
		}
		tracer().Infof("Quit with <ctrl>D")
		intp.loadInitFile(initFile)
		intp.REPL()
		return nil
	},
}

func init() {
	replCmd.Flags().StringVar(&initFile, "init", "", "file with lines to evaluate at start")
	rootCmd.AddCommand(replCmd)
}

// Intp is our interactive session.
type Intp struct {
	lang     string
	theme    render.Theme
	showTree bool
	repl     *readline.Instance
}

func (intp *Intp) loadInitFile(filename string) {
	if filename == "" {
		return
	}
	f, err := os.Open(filename)
	if err != nil {
		pterm.Error.Printfln("Unable to open init file: %s", filename)
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lineno := 1
	for scanner.Scan() {
		if _, err := intp.Eval(scanner.Text()); err != nil {
			pterm.Error.Printfln("Error line %d: %v", lineno, err)
		}
		lineno++
	}
	if err := scanner.Err(); err != nil {
		pterm.Error.Printfln("Error while reading init file: %v", err)
	}
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		quit, err := intp.Eval(line)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	fmt.Println("Good bye!")
}

// Eval executes a command or tokenizes a line of input.
func (intp *Intp) Eval(line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return intp.command(strings.Fields(line[1:]))
	}
	tokens, source := app.highlighter.Tokens(intp.lang, line)
	tracer().Debugf("%d tokens from %s lexer", len(tokens), source)
	var out strings.Builder
	if err := render.Terminal(&out, tokens, intp.theme); err != nil {
		return false, err
	}
	fmt.Println(out.String())
	if intp.showTree {
		return false, pterm.DefaultTree.WithRoot(render.Tree(tokens)).Render()
	}
	return false, nil
}

func (intp *Intp) command(args []string) (bool, error) {
	if len(args) == 0 {
		return false, fmt.Errorf("missing command")
	}
	switch args[0] {
	case "quit", "q":
		return true, nil
	case "tree":
		intp.showTree = !intp.showTree
	case "lang":
		if len(args) < 2 {
			pterm.Info.Printfln("language is %q (%s)", intp.lang, app.highlighter.Resolve(intp.lang))
			return false, nil
		}
		intp.lang = args[1]
		pterm.Info.Printfln("language set to %q (%s)", intp.lang, app.highlighter.Resolve(intp.lang))
	case "theme":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: :theme <%s>", strings.Join(render.ThemeNames(), "|"))
		}
		theme, ok := render.ThemeByName(args[1])
		if !ok {
			return false, fmt.Errorf("unknown theme %q", args[1])
		}
		intp.theme = theme
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}
