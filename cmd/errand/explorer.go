package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/errand/internal/config"
	"github.com/aretw0/errand/pkg/adapters/file"
	httpAdapter "github.com/aretw0/errand/pkg/adapters/http"
	"github.com/aretw0/errand/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/errand/pkg/adapters/redis"
	"github.com/aretw0/errand/pkg/explorer"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/session"
	"github.com/spf13/cobra"
)

var explorerCmd = &cobra.Command{
	Use:   "explorer",
	Short: "Serve a browser-based file manager",
	Long: `Starts an HTTP server with a file manager page at / and its JSON API under /api.
Sessions live in memory unless --redis points at a Redis server, in which
case several explorer processes can share sessions and path locks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.cfg.Explorer
		root := orDefault(cmd, "root", cfg.Root)
		home := orDefault(cmd, "home", cfg.Home)
		port := cfg.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		sessionsDir := orDefault(cmd, "sessions", cfg.Sessions)
		redisCfg := app.cfg.Redis
		redisCfg.Addr = orDefault(cmd, "redis", redisCfg.Addr)

		backend, locker, closeStore := sessionBackend(redisCfg, sessionsDir)
		defer closeStore()
		store := session.NewManager(backend,
			session.WithLocker(locker),
			session.WithLogger(app.logger),
		)

		ex, err := explorer.New(root, explorer.WithLocker(locker), explorer.WithLogger(app.logger))
		if err != nil {
			return err
		}
		var navOpts []explorer.NavigatorOption
		if home != "" {
			navOpts = append(navOpts, explorer.WithHome(home))
		}
		nav := explorer.NewNavigator(ex, store, navOpts...)

		handler, err := httpAdapter.NewHandler(nav,
			httpAdapter.WithLogger(app.logger),
			httpAdapter.WithObserver(app.metrics),
			httpAdapter.WithMetricsHandler(app.metrics.Handler()),
		)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		return run(cmd, "explorer", func(ctx context.Context) (string, error) {
			return srv.Addr, serve(ctx, srv, ex.Root())
		})
	},
}

// sessionBackend picks Redis when an address is configured, then a session
// directory, and the in-process store otherwise.
func sessionBackend(cfg config.Redis, dir string) (ports.SessionStore, ports.Locker, func()) {
	if cfg.Addr == "" {
		if dir != "" {
			app.logger.Info("Using file session store", "dir", dir)
			return file.New(dir), memory.NewLocker(), func() {}
		}
		return memory.NewStore(memory.WithTTL(cfg.TTL)), memory.NewLocker(), func() {}
	}
	store := redisAdapter.New(cfg.Addr, cfg.Password, cfg.DB,
		redisAdapter.WithTTL(cfg.TTL),
		redisAdapter.WithPrefix(cfg.Prefix),
	)
	app.logger.Info("Using Redis session store", "addr", cfg.Addr)
	return store, redisAdapter.NewLocker(store.Client(), cfg.Prefix), func() {
		if err := store.Close(); err != nil {
			app.logger.Warn("Failed to close Redis client", "error", err)
		}
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, root string) error {
	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		app.logger.Info("Starting errand explorer", "address", srv.Addr, "root", root)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		app.logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}
		app.logger.Info("Explorer stopped gracefully")
		return nil
	}
}

func init() {
	rootCmd.AddCommand(explorerCmd)
	explorerCmd.Flags().IntP("port", "p", 8501, "Port to listen on")
	explorerCmd.Flags().String("root", "", "Directory the explorer is confined to")
	explorerCmd.Flags().String("home", "", "Directory opened by the Home button")
	explorerCmd.Flags().String("redis", "", "Redis address for shared sessions and locks")
	explorerCmd.Flags().String("sessions", "", "Keep sessions as JSON files in this directory")
}
