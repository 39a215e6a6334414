package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/hilite/config"
	"github.com/npillmayer/hilite/highlight"
	"github.com/npillmayer/hilite/languages"
	"github.com/npillmayer/hilite/lexer"
	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	traceLevel  string
	langName    string
	grammarDirs []string
)

// app holds what sub-commands share after setup.
var app struct {
	cfg         config.Config
	registry    *languages.Registry
	highlighter *highlight.Highlighter
}

var cliTrace tracing.Trace

// tracer traces to the Go standard logger.
func tracer() tracing.Trace {
	if cliTrace == nil {
		cliTrace = gologadapter.New()
	}
	return cliTrace
}

// traceKeys are the tracing keys of the packages of this module.
var traceKeys = []string{
	"hilite.grammar",
	"hilite.lexer",
	"hilite.languages",
	"hilite.highlight",
	"hilite.render",
	"hilite.markdown",
	"hilite.config",
}

var rootCmd = &cobra.Command{
	Use:   "hilite",
	Short: "Tokenize source code for syntax highlighting",
	Long: `hilite splits source code into tokens labeled with highlighting
classes (keyword, string, comment, …), using grammars for Protocol Buffers,
Go templates and C-like languages, or grammars loaded from YAML files.
Other languages are handled by the lexers of the chroma library.

Input is read from the file given as argument, or from stdin.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the hilite command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().StringVarP(&langName, "lang", "l", "", "language of the input")
	rootCmd.PersistentFlags().StringSliceVar(&grammarDirs, "grammars", nil, "directories with YAML grammar files")
}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	level := tracing.TraceLevelFromString(traceLevel)
	tracer().SetTraceLevel(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	app.cfg = config.Default()
	if cfgFile != "" {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		app.cfg = c
	}
	app.registry = languages.Default()
	strict := app.cfg.StrictGrammars || gconf.GetBool("strict-grammars")
	for _, dir := range append(app.cfg.GrammarDirs, grammarDirs...) {
		langs, err := app.registry.LoadDirStrict(dir, strict)
		if err != nil {
			return fmt.Errorf("loading grammars: %w", err)
		}
		tracer().Infof("%d grammars loaded from %s", len(langs), dir)
	}
	app.highlighter = highlight.New(app.registry,
		highlight.LexerOptions(lexer.MaxDepth(app.cfg.MaxDepth)))
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// readInput reads the file named by the first argument, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var b []byte
	var err error
	if len(args) > 0 && args[0] != "-" {
		b, err = os.ReadFile(args[0])
	} else {
		b, err = io.ReadAll(cmd.InOrStdin())
	}
	return string(b), err
}

// language determines the language of the input: from the --lang flag, the
// extension or name of the input file, or the configured default.
func language(args []string) string {
	if langName != "" {
		return langName
	}
	if len(args) > 0 && args[0] != "-" {
		if ext := strings.TrimPrefix(filepath.Ext(args[0]), "."); ext != "" {
			if _, ok := app.registry.Lookup(ext); ok {
				return ext
			}
		}
		if app.highlighter.Resolve(filepath.Base(args[0])) != highlight.Plain {
			return filepath.Base(args[0])
		}
	}
	return app.cfg.DefaultLanguage
}
