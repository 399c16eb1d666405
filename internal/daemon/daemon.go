package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/habitquest/habitquest/internal/api"
	"github.com/habitquest/habitquest/internal/app/habit"
	"github.com/habitquest/habitquest/internal/app/progression"
	"github.com/habitquest/habitquest/internal/health"
	_ "github.com/habitquest/habitquest/internal/infra/metrics" // Register Prometheus metrics
	"github.com/habitquest/habitquest/internal/infra/sqlite"
)

// Daemon is the core HabitQuest runtime. It wires together all services.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Habits   *habit.Service
	Progress *progression.Service
	Server   *api.Server
	Health   *health.Checker
	cancel   context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(habitquestHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.Engine.StartingCoins > 0 {
		db.SetStartingCoins(cfg.Engine.StartingCoins)
	}

	progress := progression.NewService(db)
	habits := habit.NewService(db, progress)

	srv := api.NewServer(habits, progress)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	checker := health.NewChecker(db, habitquestHome())
	srv.SetHealthHandler(checker)

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Habits:   habits,
		Progress: progress,
		Server:   srv,
		Health:   checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	if interval := parseDuration(d.Config.Engine.SweepInterval, 0); interval > 0 {
		go d.sweepLoop(ctx, interval)
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("HabitQuest serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// sweepLoop periodically charges overdue habits for every known user.
func (d *Daemon) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			userIDs, err := d.DB.AccountUserIDs(ctx)
			if err != nil {
				log.Printf("[daemon] sweep: list users: %v", err)
				continue
			}
			for _, userID := range userIDs {
				result, err := d.Habits.Sweep(ctx, userID, time.Now())
				if err != nil {
					log.Printf("[daemon] sweep %s: %v", userID, err)
					continue
				}
				if len(result.PenalizedIDs) > 0 {
					log.Printf("[daemon] sweep %s: %d habits penalized, -%d XP",
						userID, len(result.PenalizedIDs), result.PenaltyXP)
				}
			}
		}
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// parseDuration parses a duration string, returning a fallback on error.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
