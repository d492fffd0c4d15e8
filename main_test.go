package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gowam/warren/internal/cli"
	"github.com/gowam/warren/internal/cli/cmd"
	"github.com/gowam/warren/internal/log"
)

func commands() []cli.Command {
	return []cli.Command{cmd.REPL(), cmd.Assembler(), cmd.Version()}
}

// TestHelpListsCommands checks that the command table wired up in main is
// what the help command advertises.
func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer

	help := cmd.Help(commands())
	if code := help.Run(context.Background(), nil, &out, log.DefaultLogger()); code != 0 {
		t.Fatalf("help.Run() = %d, want 0", code)
	}

	for _, name := range []string{"repl", "asm", "version"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help output missing command %q:\n%s", name, out.String())
		}
	}
}

// TestVersionCommand checks that the version command runs successfully
// and prints the module path.
func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer

	v := cmd.Version()
	if code := v.Run(context.Background(), nil, &out, log.DefaultLogger()); code != 0 {
		t.Fatalf("version.Run() = %d, want 0", code)
	}

	if !strings.Contains(out.String(), "gowam/warren") {
		t.Errorf("version output missing module path:\n%s", out.String())
	}
}

// TestAssemblerCommand exercises the asm command end to end: a source file
// with a fact and a query, compiled to a bytecode listing without running.
func TestAssemblerCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.pl")

	if err := os.WriteFile(path, []byte("a.\na?\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	var out bytes.Buffer

	asm := cmd.Assembler()
	if code := asm.Run(context.Background(), []string{path}, &out, log.DefaultLogger()); code != 0 {
		t.Fatalf("asm.Run() = %d, want 0", code)
	}

	if !strings.Contains(out.String(), "OpPutStructure") {
		t.Errorf("asm output missing bytecode listing:\n%s", out.String())
	}
}
