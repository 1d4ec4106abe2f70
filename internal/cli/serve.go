package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lazypower/portfolio/internal/config"
	"github.com/lazypower/portfolio/internal/engine"
	"github.com/lazypower/portfolio/internal/server"
	"github.com/lazypower/portfolio/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional; environment wins over defaults either way.
	godotenv.Load()
	cfg := config.FromEnv()

	// Resolve database path
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng := engine.New(db, cfg)

	// Daily close: re-derive the read model at day rollover so the log
	// carries the closing numbers even when no one hits the dashboard.
	c := cron.New()
	c.AddFunc("@midnight", func() {
		snap := eng.Aggregate(time.Now())
		fmt.Fprintf(os.Stderr, "daily close: equity=%d rent=%d ema=%.1f tokens=%d/%d\n",
			closingEquity(snap), snap.CurrentRent, snap.SocialEMA,
			snap.DeepWorkTokens, snap.WeeklyTokenCap)
	})
	c.Start()
	defer c.Stop()

	srv := server.New(db, eng, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "portfolio serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

func closingEquity(snap engine.Snapshot) int {
	if len(snap.Equity) == 0 {
		return 0
	}
	return snap.Equity[len(snap.Equity)-1].Equity
}
