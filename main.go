// warren is the command-line interface to the term-unification machine: it
// compiles structured terms to bytecode, runs that bytecode against a
// tagged-cell heap, and unifies queries against registered facts.
package main

import (
	"context"
	"os"

	"github.com/gowam/warren/internal/cli"
	"github.com/gowam/warren/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.REPL(),
	cmd.Assembler(),
	cmd.Version(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
