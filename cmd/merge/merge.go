package merge

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/app"
	"github.com/hirvin/drivemapper/db"
)

type Command struct {
	sourceDB string
	destDB   string
	conflict string
	verbose  bool
}

func (*Command) Name() string     { return "merge" }
func (*Command) Synopsis() string { return "Merge one scan database into another" }
func (*Command) Usage() string {
	return `merge -source <source.db> -dest <dest.db> [-conflict ignore|replace]:
  Copy all records from the source database into the destination.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.sourceDB, "source", "", "source database file (required)")
	f.StringVar(&c.destDB, "dest", "", "destination database file (required)")
	f.StringVar(&c.conflict, "conflict", string(db.ConflictIgnore), "existing path policy: ignore or replace")
	f.BoolVar(&c.verbose, "verbose", false, "verbose logging")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.sourceDB == "" || c.destDB == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	policy := db.ConflictPolicy(c.conflict)
	if !policy.Valid() {
		f.Usage()
		return subcommands.ExitUsageError
	}

	logger, err := app.NewLogger(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	copied, err := db.MergeDatabase(ctx, c.sourceDB, c.destDB, policy, logger)
	if err != nil {
		logger.Error("merge failed", zap.Int64("records_read", copied), zap.Error(err))
		return subcommands.ExitFailure
	}

	logger.Info("merge completed", zap.Int64("records", copied))
	return subcommands.ExitSuccess
}
