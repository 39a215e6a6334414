/*
Package languages provides grammars for concrete languages, together with a
registry to look them up by name.

Built-in grammars are

	clike        generic grammar for C-like languages, base for others
	protobuf     Protocol Buffers, derived from clike
	gotemplate   Go text/template files

Further grammars may be loaded from YAML files (see LoadYAML). A grammar file
lists rules in order of priority:

	name: ini
	aliases: [dosini]
	rules:
	  comment: '^\s*[;#].*'
	  section:
	    pattern: '^\s*\[[^\]\r\n]+\]'
	    alias: [class-name]
	    inside:
	      punctuation: '[\[\]]'
	  string:
	    - pattern: '"[^"\r\n]*"'
	      greedy: true
	    - pattern: "'[^'\\r\\n]*'"
	      greedy: true

Grammars may be derived from registered ones with 'extends' (redefining or
appending rules) and 'insert' (placing rules before an existing one).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package languages

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hilite.languages'.
func tracer() tracing.Trace {
	return tracing.Select("hilite.languages")
}
