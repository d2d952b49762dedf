// Package cmd defines and implements the CLI commands for the vidwatch
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vidwatch/vidwatch/internal/clock/system"
	"github.com/vidwatch/vidwatch/internal/config"
	"github.com/vidwatch/vidwatch/internal/logging"
	"github.com/vidwatch/vidwatch/internal/metrics"
	"github.com/vidwatch/vidwatch/internal/scraper"
	"github.com/vidwatch/vidwatch/internal/store/sqlite"
	"github.com/vidwatch/vidwatch/internal/tracker"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application services that commands use. This allows
// us to inject a mock app during tests.
type App interface {
	Config() config.Config
	Logger() *zap.Logger
	Store() *sqlite.Store
	Tracker() *tracker.Tracker
	Close()
}

// newApp is the application factory. It's a variable so tests can
// replace it with a mock factory.
var newApp func(ctx context.Context) (App, error) = buildApp

type application struct {
	cfg    config.Config
	logger *zap.Logger
	store  *sqlite.Store
	track  *tracker.Tracker
}

func (a *application) Config() config.Config     { return a.cfg }
func (a *application) Logger() *zap.Logger       { return a.logger }
func (a *application) Store() *sqlite.Store      { return a.store }
func (a *application) Tracker() *tracker.Tracker { return a.track }

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Error closing database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func buildApp(ctx context.Context) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	metrics.Init()

	store, err := sqlite.Open(ctx, cfg.DB.Path,
		sqlite.Options{BusyTimeoutMS: cfg.DB.BusyTimeout},
		logger.Named("store"),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	client := scraper.New(scraper.Config{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   cfg.ScrapeTimeout(),
	}, logger.Named("scraper"))

	track := tracker.New(store, client, system.New(), logger.Named("tracker"))

	return &application{
		cfg:    cfg,
		logger: logger,
		store:  store,
		track:  track,
	}, nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vidwatch",
		Short: "Search YouTube, track queries over time, and surface trends.",
		Long: `vidwatch scrapes YouTube search results into a local SQLite
database, re-scrapes tracked queries on a schedule, and derives two
analytic views from the accumulated history: fastest-growing videos
(trending) and videos appearing under multiple queries (duplicates).`,

		SilenceUsage: true,

		// Build and inject the application before any subcommand runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// Shut services down after the command finishes.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus VIDWATCH_* env)")

	cmd.AddCommand(
		newSearchCmd(),
		newTrackCmd(),
		newUntrackCmd(),
		newTrackedCmd(),
		newRunTrackerCmd(),
		newSchedulerCmd(),
		newTrendingCmd(),
		newDuplicatesCmd(),
		newBrowseCmd(),
		newExportCmd(),
		newServeCmd(),
	)

	return cmd
}

// Execute is the main entry point.
func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
