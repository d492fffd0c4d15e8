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
)

// Assembler prints the compiled bytecode for each term in a source file,
// without running any of it.
//
//	warren asm file.pl
func Assembler() cli.Command {
	return new(assembler)
}

type assembler struct {
	debug bool
	quiet bool
	regs  int
}

func (assembler) Description() string {
	return "print compiled bytecode for a source file"
}

func (assembler) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `asm [ -debug | -quiet | -regs n ] file...

Parse each line of the named files as a query or fact and print its
compiled bytecode listing. With no files, reads from standard input.`)

	return err
}

func (a *assembler) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	fs.BoolVar(&a.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&a.quiet, "quiet", false, "enable quiet output, suppress non-error logging")
	fs.IntVar(&a.regs, "regs", 0, "reserve at least n scratch X registers per query")

	return fs
}

func (a *assembler) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if a.quiet {
		log.LogLevel.Set(log.Error)
	}

	if a.debug {
		log.LogLevel.Set(log.Debug)
	}

	if len(args) == 0 {
		return a.assemble(os.Stdin, out, logger)
	}

	for _, fn := range args {
		f, err := os.Open(fn)
		if err != nil {
			logger.Error("open failed", "file", fn, "err", err)
			return 1
		}

		code := a.assemble(f, out, logger)

		_ = f.Close()

		if code != 0 {
			return code
		}
	}

	return 0
}

func (a *assembler) assemble(in io.Reader, out io.Writer, logger *log.Logger) int {
	session := lang.NewContext()
	session.SetMinRegisters(a.regs)
	parser := lang.NewParser()
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := scanner.Text()

		input, err := parser.Parse(line)
		if errors.Is(err, lang.ErrEmptyInput) {
			continue
		} else if err != nil {
			logger.Error("parse error", "err", err)
			return 1
		}

		fmt.Fprintln(out, session.Assembly(input.Term, input.Kind))

		if input.Kind == lang.KindFact {
			session.AddFact(input.Term)
		}
	}

	return 0
}
