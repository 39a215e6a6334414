/*
Package hilite is a syntax highlighting toolbox for documentation sites.

Hilite tokenizes code samples with ordered, priority-driven regular expression
grammars and renders the resulting token streams. Package structure is
as follows:

■ grammar: Package grammar defines rules and immutable grammars, together with
a builder and pure extension operations to derive grammars from each other.

■ lexer: Package lexer implements the tokenizer, producing a total,
non-overlapping token stream for any input.

■ languages: Package languages ships the built-in grammars (gotemplate, protobuf
and their C-like base) and a registry, and loads user grammars from YAML.

■ highlight, render, markdown: Packages for clients: select a grammar by
language identifier, render tokens to HTML or a terminal, and highlight
fenced code blocks within Markdown documents.

■ config, cmd/hilite: Settings file and command line tool, including an
interactive REPL for exploring grammars.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hilite
