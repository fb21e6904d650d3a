package version

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

// Build metadata, injected at release time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the one-line build identifier used by the version
// command and the serve startup log.
func String() string {
	return fmt.Sprintf("drivemapper %s (commit %s, built %s)", Version, Commit, Date)
}

type Command struct{}

func (*Command) Name() string           { return "version" }
func (*Command) Synopsis() string       { return "Print the build version" }
func (*Command) Usage() string          { return "version:\n  Print the build version and exit.\n" }
func (*Command) SetFlags(*flag.FlagSet) {}

func (c *Command) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	fmt.Println(String())
	return subcommands.ExitSuccess
}
