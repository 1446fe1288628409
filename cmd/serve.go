package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fipe-web/config"
	httpLayer "fipe-web/http"
	"fipe-web/repository"
	"fipe-web/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

func init() {
	flags := serveCmd.Flags()
	flags.String("address", ":8080", "address to listen on")
	flags.String("history-backend", config.BackendMemory, "history backend: memory or redis")
	flags.Int("history-capacity", 500, "number of price lookups kept in the history")
	flags.String("catalog-url", service.DefaultCatalogBaseURL, "base URL of the FIPE catalog API")

	_ = settings.BindPFlag("server.address", flags.Lookup("address"))
	_ = settings.BindPFlag("history.backend", flags.Lookup("history-backend"))
	_ = settings.BindPFlag("history.capacity", flags.Lookup("history-capacity"))
	_ = settings.BindPFlag("catalog.base_url", flags.Lookup("catalog-url"))
}

func newHistoryRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.HistoryRepository, func(), error) {
	if cfg.History.Backend != config.BackendRedis {
		return repository.NewHistoryRepositoryMemory(cfg.History.Capacity), func() {}, nil
	}

	repo := repository.NewHistoryRepositoryRedis(repository.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Key:      cfg.Redis.Key,
	}, cfg.History.Capacity)

	if err := repo.Ping(ctx); err != nil {
		_ = repo.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("history stored in redis", zap.String("addr", cfg.Redis.Addr), zap.String("key", cfg.Redis.Key))

	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn("closing redis", zap.Error(err))
		}
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	history, closeHistory, err := newHistoryRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeHistory()

	render, err := httpLayer.NewRenderer(log)
	if err != nil {
		return err
	}

	catalog := service.NewCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, log.Named("catalog"))
	charts := service.NewChartService(catalog, cfg.Catalog.ChartBudget, log.Named("chart"))
	financing := service.NewFinancingService(log.Named("financing"))

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Catalog:   httpLayer.NewCatalogHandler(catalog, charts, history, render, log),
		Financing: httpLayer.NewFinancingHandler(financing, render, log),
		History:   httpLayer.NewHistoryHandler(history, render, log),
	}, rateLimiter, log.Named("http"))

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", cfg.Server.Address),
			zap.String("catalog", cfg.Catalog.BaseURL),
			zap.String("history_backend", cfg.History.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
