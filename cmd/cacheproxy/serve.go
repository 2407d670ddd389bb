package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/bhwanip/apollo-server/pkg/httpcache"
	"github.com/bhwanip/apollo-server/pkg/logging"
	"github.com/bhwanip/apollo-server/pkg/metrics"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		listen     string
		origin     string
		backend    string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the caching proxy server",
		Long: `Start the reverse proxy, answering repeated GET requests from the cache
and revalidating expired entries against the origin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("origin") {
				cfg.Origin = origin
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Backend = backend
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&origin, "origin", "o", "", "origin base URL (overrides config)")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: memory, redis, memcached, sqlite or leveldb")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	return cmd
}

func runServe(cfg *Config) error {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger("cacheproxy")

	store, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, err := httpcache.New(httpcache.Config{
		Store: store,
		Fetch: &http.Client{Timeout: cfg.upstreamTimeout},
	})
	if err != nil {
		return fmt.Errorf("building cache: %w", err)
	}

	router := chi.NewRouter()
	router.Get("/healthz", healthHandler)
	router.Handle("/metrics", metrics.Handler())
	router.Handle("/*", newProxyHandler(cache, cfg.originURL))

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("listen", cfg.Listen).
			Str("origin", cfg.originURL.String()).
			Str("store", cfg.Store.Backend).
			Msg("Cache proxy listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}
