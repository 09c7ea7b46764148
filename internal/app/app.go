package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexitrack/internal/config"
	"github.com/heartmarshall/lexitrack/internal/importer"
	"github.com/heartmarshall/lexitrack/internal/metrics"
	"github.com/heartmarshall/lexitrack/internal/reminder"
	"github.com/heartmarshall/lexitrack/internal/service/progress"
	"github.com/heartmarshall/lexitrack/internal/service/review"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

// Container holds the wired application components.
type Container struct {
	Config   *config.Config
	Log      *slog.Logger
	Clock    clockwork.Clock
	Metrics  *metrics.Metrics
	Store    *Store
	Review   *review.Service
	Progress *progress.Tracker
	Importer *importer.Importer
}

// NewContainer wires services on top of an open store.
func NewContainer(cfg *config.Config, log *slog.Logger, store *Store, m *metrics.Metrics, clock clockwork.Clock) *Container {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	params := scheduler.Parameters{
		DefaultEase: cfg.SRS.DefaultEaseFactor,
		MinEase:     cfg.SRS.MinEaseFactor,
		MaxEase:     cfg.SRS.MaxEaseFactor,
	}

	tracker := progress.NewTracker(log, store.Settings, store.Vocabulary, store.Tx, m, clock, cfg.Progress.Location)
	reviews := review.NewService(log, store.ReviewStates, store.Vocabulary, tracker, store.Tx, m, clock, params)

	return &Container{
		Config:   cfg,
		Log:      log,
		Clock:    clock,
		Metrics:  m,
		Store:    store,
		Review:   reviews,
		Progress: tracker,
		Importer: importer.New(log, store.Vocabulary, store.Tx, m),
	}
}

// bootstrap loads configuration, builds the logger and opens the store.
// The caller must Close the returned container's store.
func bootstrap(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := NewLogger(cfg.Log)

	clock := clockwork.NewRealClock()
	store, err := OpenStore(ctx, log, cfg.Store, clock)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	return NewContainer(cfg, log, store, metrics.New(nil), clock), nil
}

// Run starts the HTTP server and, when enabled, the reminder job. It blocks
// until ctx is cancelled or a component fails, then shuts down gracefully.
func Run(ctx context.Context) error {
	c, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Store.Close()

	cfg := c.Config
	c.Log.InfoContext(ctx, "starting lexitrack",
		slog.String("version", BuildVersion()),
		slog.String("store", cfg.Store.Driver),
		slog.String("addr", cfg.Server.Addr()),
		slog.String("timezone", cfg.Progress.Timezone),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewRouter(c),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Log.InfoContext(gctx, "http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		c.Log.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Reminder.Enabled {
		job := reminder.New(c.Log, cfg.Reminder, cfg.Progress.Location, c.Review,
			reminder.NewLogNotifier(c.Log), c.Metrics, c.Clock)
		g.Go(func() error { return job.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	c.Log.Info("lexitrack stopped")
	return nil
}

// Migrate applies pending schema migrations for the configured store.
func Migrate(ctx context.Context) error {
	c, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Store.Close()

	c.Log.InfoContext(ctx, "migrations up to date", slog.String("store", c.Config.Store.Driver))
	return nil
}

// Import loads vocabulary from an .xlsx or .csv file.
func Import(ctx context.Context, path, sheet string) (importer.Report, error) {
	c, err := bootstrap(ctx)
	if err != nil {
		return importer.Report{}, err
	}
	defer c.Store.Close()

	return c.Importer.ImportFile(ctx, path, importer.Options{Sheet: sheet})
}

// ResetStats clears the aggregate statistics and the daily history.
func ResetStats(ctx context.Context) error {
	c, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer c.Store.Close()

	return c.Progress.ResetStats(ctx)
}
