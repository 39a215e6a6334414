package render

import (
	"html"
	"io"
	"strings"

	"github.com/npillmayer/hilite"
)

// HTMLOptions controls HTML output.
type HTMLOptions struct {
	ClassPrefix string // prefix for every class name, including 'token'
	Language    string // if set, wrap output in <pre><code class="language-…">
}

// HTML writes tokens as HTML markup. Every token except plain text becomes
//
//    <span class="token KIND ALIAS…">…</span>
//
// Children of nested tokens are rendered inside the span of their parent.
// Text is HTML-escaped; removing all tags and unescaping the output
// therefore reproduces the tokenized input.
func HTML(w io.Writer, tokens []hilite.Token, opts HTMLOptions) error {
	var b strings.Builder
	if opts.Language != "" {
		lang := html.EscapeString(opts.ClassPrefix + "language-" + opts.Language)
		b.WriteString(`<pre class="` + lang + `"><code class="` + lang + `">`)
	}
	writeHTML(&b, tokens, opts.ClassPrefix)
	if opts.Language != "" {
		b.WriteString("</code></pre>")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// HTMLString is a convenience wrapper for HTML, returning the markup as a
// string.
func HTMLString(tokens []hilite.Token, opts HTMLOptions) string {
	var b strings.Builder
	_ = HTML(&b, tokens, opts)
	return b.String()
}

func writeHTML(b *strings.Builder, tokens []hilite.Token, prefix string) {
	for _, t := range tokens {
		if t.Kind == hilite.PlainText && len(t.Children) == 0 {
			b.WriteString(html.EscapeString(t.Text))
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(classes(t, prefix)))
		b.WriteString(`">`)
		if len(t.Children) > 0 {
			writeHTML(b, t.Children, prefix)
		} else {
			b.WriteString(html.EscapeString(t.Text))
		}
		b.WriteString("</span>")
	}
}

func classes(t hilite.Token, prefix string) string {
	c := make([]string, 0, len(t.Aliases)+2)
	c = append(c, prefix+"token")
	for _, k := range t.Classes() {
		c = append(c, prefix+string(k))
	}
	return strings.Join(c, " ")
}
