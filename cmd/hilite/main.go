/*
Command hilite tokenizes source code for syntax highlighting.

	hilite tokens --lang protobuf api.proto
	hilite html api.proto > api.html
	hilite term --theme mono templates/page.tmpl
	hilite markdown --format html README.md
	hilite languages
	hilite repl --lang gotemplate

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"os"

	"github.com/npillmayer/hilite/cmd/hilite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
