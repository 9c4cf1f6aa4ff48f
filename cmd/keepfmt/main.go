// keepfmt edits configuration files while keeping their layout.
package main

import (
	"os"

	"github.com/thirteen37/keepfmt/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute(interpreterArgs(os.Args[1:])))
}

// interpreterArgs turns a lone script argument, as passed by a
// "#!/usr/bin/env keepfmt" shebang, into "run <script>".
func interpreterArgs(args []string) []string {
	if len(args) == 1 && cmd.IsScript(args[0]) {
		return []string{"run", args[0]}
	}
	return args
}
