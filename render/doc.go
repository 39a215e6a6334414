/*
Package render turns token sequences into output formats: HTML markup with
Prism-compatible class names, colored text for terminals, and trees for
inspecting token nesting.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package render

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.render'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.render")
}
