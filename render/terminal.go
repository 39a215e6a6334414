package render

import (
	"io"
	"strings"

	"github.com/npillmayer/hilite"
	"github.com/pterm/pterm"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Theme assigns terminal styles to token kinds.
type Theme map[hilite.Kind]*pterm.Style

// Themes for terminal output.
var (
	DefaultTheme = Theme{
		hilite.Comment:     pterm.NewStyle(pterm.FgGray, pterm.Italic),
		hilite.String:      pterm.NewStyle(pterm.FgGreen),
		hilite.Boolean:     pterm.NewStyle(pterm.FgLightMagenta),
		hilite.Number:      pterm.NewStyle(pterm.FgLightMagenta),
		hilite.Operator:    pterm.NewStyle(pterm.FgYellow),
		hilite.Builtin:     pterm.NewStyle(pterm.FgCyan),
		hilite.Keyword:     pterm.NewStyle(pterm.FgBlue, pterm.Bold),
		hilite.ClassName:   pterm.NewStyle(pterm.FgLightYellow),
		hilite.Function:    pterm.NewStyle(pterm.FgLightBlue),
		hilite.Annotation:  pterm.NewStyle(pterm.FgLightCyan),
		hilite.Variable:    pterm.NewStyle(pterm.FgLightRed),
		hilite.Property:    pterm.NewStyle(pterm.FgLightRed),
		hilite.Punctuation: pterm.NewStyle(pterm.FgDefault),
	}
	MonoTheme = Theme{
		hilite.Comment:   pterm.NewStyle(pterm.Italic),
		hilite.Keyword:   pterm.NewStyle(pterm.Bold),
		hilite.ClassName: pterm.NewStyle(pterm.Underscore),
	}
)

var themes = map[string]Theme{
	"default": DefaultTheme,
	"mono":    MonoTheme,
}

// ThemeByName finds a theme. An empty name denotes the default theme.
func ThemeByName(name string) (Theme, bool) {
	if name == "" {
		return DefaultTheme, true
	}
	t, ok := themes[strings.ToLower(name)]
	return t, ok
}

// ThemeNames lists the names of the available themes.
func ThemeNames() []string {
	names := maps.Keys(themes)
	slices.Sort(names)
	return names
}

// styleFor finds the style for a token: the style of its kind, or else of
// the first of its aliases having one.
func (th Theme) styleFor(t hilite.Token) *pterm.Style {
	for _, k := range t.Classes() {
		if s, ok := th[k]; ok {
			return s
		}
	}
	return nil
}

// Terminal writes tokens as text with terminal colors. Plain text is written
// unstyled; plain-text children of nested tokens inherit the style of their
// parent.
func Terminal(w io.Writer, tokens []hilite.Token, theme Theme) error {
	if theme == nil {
		theme = DefaultTheme
	}
	var b strings.Builder
	writeStyled(&b, tokens, theme, nil)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeStyled(b *strings.Builder, tokens []hilite.Token, theme Theme, inherited *pterm.Style) {
	for _, t := range tokens {
		style := inherited
		if t.Kind != hilite.PlainText {
			if s := theme.styleFor(t); s != nil {
				style = s
			}
		}
		if len(t.Children) > 0 {
			writeStyled(b, t.Children, theme, style)
			continue
		}
		if style == nil {
			b.WriteString(t.Text)
			continue
		}
		b.WriteString(style.Sprint(t.Text))
	}
}

// Tree creates a tree of tokens for display with pterm's tree printer.
// Every token is shown with its classes and its lexeme.
//
//    pterm.DefaultTree.WithRoot(render.Tree(tokens)).Render()
func Tree(tokens []hilite.Token) pterm.TreeNode {
	root := pterm.TreeNode{Text: "tokens", Children: nodes(tokens)}
	tracer().Debugf("tree with %d top-level nodes", len(root.Children))
	return root
}

func nodes(tokens []hilite.Token) []pterm.TreeNode {
	n := make([]pterm.TreeNode, len(tokens))
	for i, t := range tokens {
		n[i] = pterm.TreeNode{Text: label(t)}
		if len(t.Children) > 0 {
			n[i].Children = nodes(t.Children)
		}
	}
	return n
}

func label(t hilite.Token) string {
	var c []string
	for _, k := range t.Classes() {
		c = append(c, string(k))
	}
	return strings.Join(c, ",") + " " + quote(t.Text) + " " + t.Span.String()
}

var quoter = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

func quote(s string) string {
	return "'" + quoter.Replace(s) + "'"
}
