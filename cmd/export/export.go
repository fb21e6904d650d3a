package export

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/app"
)

type Command struct {
	dbPath  string
	csvPath string
	verbose bool
}

func (*Command) Name() string     { return "export" }
func (*Command) Synopsis() string { return "Export stored file records to CSV" }
func (*Command) Usage() string {
	return `export -db <database> -out <csv>:
  Write every stored record to a CSV file, ordered by path.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.StringVar(&c.csvPath, "out", "", "CSV output file path (required)")
	f.BoolVar(&c.verbose, "verbose", false, "verbose logging")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.dbPath == "" || c.csvPath == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	logger, err := app.NewLogger(c.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer logger.Sync()

	rows, err := app.ExportRun(ctx, c.dbPath, c.csvPath)
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		return subcommands.ExitFailure
	}

	logger.Info("export completed",
		zap.Int64("rows", rows),
		zap.String("csv", c.csvPath))
	return subcommands.ExitSuccess
}
