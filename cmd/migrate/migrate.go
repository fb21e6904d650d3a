package migrate

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
	dbPath  string
	verbose bool
}

func (*Command) Name() string     { return "migrate" }
func (*Command) Synopsis() string { return "Run database migrations" }
func (*Command) Usage() string {
	return `migrate -db <database>:
  Apply pending schema migrations to the specified SQLite database.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.BoolVar(&c.verbose, "verbose", false, "verbose logging")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	logger, err := app.NewLogger(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	logger.Info("running database migrations", zap.String("db", c.dbPath))
	if err := db.RunMigrations(c.dbPath); err != nil {
		logger.Error("migrations failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("database migrations completed")

	return subcommands.ExitSuccess
}
