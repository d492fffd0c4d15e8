package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gowam/warren/internal/cli"
	"github.com/gowam/warren/internal/lang"
	"github.com/gowam/warren/internal/log"
	"github.com/gowam/warren/internal/tty"
	"github.com/gowam/warren/internal/vm"
)

// REPL is the interactive query session command.
//
//	warren repl
func REPL() cli.Command {
	return new(repl)
}

type repl struct {
	debug bool
	quiet bool
	regs  int
}

func (repl) Description() string {
	return "start an interactive query session"
}

func (repl) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `repl [ -debug | -quiet | -regs n ]

Read terms from standard input, one per line. A line ending in '?' runs
as a query against the facts registered so far; a line ending in '.'
registers the term as a fact. Prefix either with '@asm' to print the
compiled bytecode instead of running it.`)

	return err
}

func (r *repl) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&r.quiet, "quiet", false, "enable quiet output, suppress non-error logging")
	fs.IntVar(&r.regs, "regs", 0, "reserve at least n scratch X registers per query")

	return fs
}

// Run starts the read-eval-print loop. When standard input is a terminal,
// input is read through a line-editing [tty.Console]; otherwise lines are
// read with a plain scanner, which is how piped scripts and tests drive it.
func (r *repl) Run(_ context.Context, _ []string, out io.Writer, logger *log.Logger) int {
	if r.quiet {
		log.LogLevel.Set(log.Error)
	}

	if r.debug {
		log.LogLevel.Set(log.Debug)
	}

	console, err := tty.NewConsole(os.Stdin, os.Stdout, "?- ")
	if errors.Is(err, tty.ErrNoTTY) {
		return r.runScanner(os.Stdin, out, logger)
	} else if err != nil {
		logger.Error("console", "err", err)
		return 1
	}

	defer console.Restore()

	return r.runConsole(console, logger)
}

func (r *repl) runConsole(console *tty.Console, logger *log.Logger) int {
	session := lang.NewContext()
	session.SetMinRegisters(r.regs)
	parser := lang.NewParser()
	out := console.Writer()

	for {
		line, err := console.ReadLine()
		if errors.Is(err, io.EOF) {
			return 0
		} else if err != nil {
			logger.Error("read", "err", err)
			return 1
		}

		r.eval(session, parser, line, out)
	}
}

func (r *repl) runScanner(in io.Reader, out io.Writer, _ *log.Logger) int {
	session := lang.NewContext()
	session.SetMinRegisters(r.regs)
	parser := lang.NewParser()
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		r.eval(session, parser, scanner.Text(), out)
	}

	return 0
}

func (r *repl) eval(session *lang.Context, parser *lang.Parser, line string, out io.Writer) {
	in, err := parser.Parse(line)

	switch {
	case errors.Is(err, lang.ErrEmptyInput):
		return
	case err != nil:
		fmt.Fprintln(out, err)
		return
	}

	if in.Asm {
		fmt.Fprintln(out, session.Assembly(in.Term, in.Kind))
		return
	}

	switch in.Kind {
	case lang.KindFact:
		session.AddFact(in.Term)
		fmt.Fprintln(out, "ok.")

	case lang.KindQuery:
		result, err := session.Query(in.Term)

		switch {
		case errors.Is(err, vm.ErrUnification), errors.Is(err, vm.ErrArity):
			fmt.Fprintln(out, "false.")
			return
		case err != nil:
			fmt.Fprintln(out, err)
			return
		}

		r.printBindings(result, in.Term, out)
	}
}

func (r *repl) printBindings(result *lang.QueryResult, query lang.Term, out io.Writer) {
	names := variableNames(query)
	if len(names) == 0 {
		fmt.Fprintln(out, "true.")
		return
	}

	for _, name := range names {
		v, err := result.Term(name)
		if err != nil {
			continue
		}

		fmt.Fprintf(out, "%s = %s\n", name, v.String())
	}
}

// variableNames returns the names of the variables in t, in first-occurrence
// order, for printing query bindings.
func variableNames(t lang.Term) []string {
	seen := map[string]bool{}

	var names []string

	var walk func(lang.Term)

	walk = func(t lang.Term) {
		switch v := t.(type) {
		case lang.Var:
			if !seen[v.Name] {
				seen[v.Name] = true
				names = append(names, v.Name)
			}
		case lang.Struct:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}

	walk(t)

	return names
}
