package serve

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/google/subcommands"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hirvin/drivemapper/api"
	"github.com/hirvin/drivemapper/app"
	"github.com/hirvin/drivemapper/cmd/version"
	"github.com/hirvin/drivemapper/db"
)

type Command struct {
	dbPath  string
	port    string
	verbose bool
}

func (*Command) Name() string     { return "serve" }
func (*Command) Synopsis() string { return "Serve the file record database over HTTP" }
func (*Command) Usage() string {
	return `serve -db <database> [-port <port>]:
  Start an HTTP server with a read-only query API over a scanned database.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "database file path (required)")
	f.StringVar(&c.port, "port", "8080", "port to listen on")
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

	database, err := db.OpenExisting(c.dbPath)
	if err != nil {
		logger.Error("failed to setup database", zap.Error(err))
		return subcommands.ExitFailure
	}
	defer database.Close()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := api.NewHandler(database)

	e.GET("/api/stat", h.GetFileRecord)
	e.GET("/api/search", h.SearchFiles)
	e.GET("/api/search/advanced", h.AdvancedSearch)
	e.GET("/api/stats", h.GetStats)
	e.GET("/api/extensions", h.GetExtensionStats)

	logger.Info("starting server",
		zap.String("build", version.String()),
		zap.String("port", c.port))
	if err := e.Start(":" + c.port); err != nil && err != http.ErrServerClosed {
		logger.Error("failed to start server", zap.Error(err))
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
