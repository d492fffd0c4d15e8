package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/gowam/warren/internal/cli"
	"github.com/gowam/warren/internal/log"
)

// Version prints the build's module version and VCS revision, read from
// the binary's embedded build info.
//
//	warren version
func Version() cli.Command {
	return new(version)
}

type version struct{}

func (version) Description() string {
	return "print build version"
}

func (version) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `version

Print the module version and VCS revision embedded in the binary.`)

	return err
}

func (version) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("version", flag.ExitOnError)
}

func (version) Run(_ context.Context, _ []string, out io.Writer, _ *log.Logger) int {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		fmt.Fprintln(out, "version: unknown (no build info)")
		return 0
	}

	fmt.Fprintf(out, "%s %s\n", bi.Main.Path, moduleVersion(bi))

	if rev, ok := buildSetting(bi, "vcs.revision"); ok {
		fmt.Fprintf(out, "revision: %s\n", rev)
	}

	if t, ok := buildSetting(bi, "vcs.time"); ok {
		fmt.Fprintf(out, "built: %s\n", t)
	}

	return 0
}

func moduleVersion(bi *debug.BuildInfo) string {
	if bi.Main.Version == "" || bi.Main.Version == "(devel)" {
		return "(devel)"
	}

	return bi.Main.Version
}

func buildSetting(bi *debug.BuildInfo, key string) (string, bool) {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}

	return "", false
}
