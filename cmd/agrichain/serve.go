package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agrichain/agrichain/internal/api"
	"github.com/agrichain/agrichain/internal/bus"
	"github.com/agrichain/agrichain/internal/bypass"
	"github.com/agrichain/agrichain/internal/cache"
	"github.com/agrichain/agrichain/internal/composer"
	"github.com/agrichain/agrichain/internal/config"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/market"
	"github.com/agrichain/agrichain/internal/models"
	"github.com/agrichain/agrichain/internal/narrator"
	"github.com/agrichain/agrichain/internal/profiles"
	"github.com/agrichain/agrichain/internal/repository"
	"github.com/agrichain/agrichain/internal/routing"
	"github.com/agrichain/agrichain/internal/rules"
	"github.com/agrichain/agrichain/internal/spoilage"
	"github.com/agrichain/agrichain/internal/surge"
	"github.com/agrichain/agrichain/internal/weather"
	"github.com/agrichain/agrichain/internal/worker"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the async insight worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg.Logging, os.Stdout)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("AGRICHAIN_CONFIG"), "path to a YAML config file")
	return cmd
}

func serve(ctx context.Context, cfg *domain.Config, logger *slog.Logger) error {
	logger.Info("starting agrichain",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
		"tracing", cfg.Tracing.Enabled,
	)

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	defer cacheImpl.Close()

	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	defer busImpl.Close()

	engine, err := rules.NewEngine(cfg.Scoring.AdvisoryWorkers)
	if err != nil {
		return fmt.Errorf("failed to initialize advisory engine: %w", err)
	}
	defer engine.Close()

	// Advisory rules are configured through the API; an empty set is fine.
	if n, err := engine.Reload(ctx, repo); err != nil {
		logger.Warn("failed to load advisory rules", "error", err)
	} else {
		logger.Info("advisory engine initialized", "rules_count", n)
	}

	p := cfg.Providers
	weatherClient := weather.NewClient(weather.Config{
		BaseURL:  p.WeatherBaseURL,
		APIKey:   p.WeatherAPIKey,
		Timeout:  p.Timeout,
		CacheTTL: cfg.Scoring.WeatherTTL,
	}, cacheImpl, logger)
	modelClient := models.NewClient(p.ModelURL, p.Timeout, logger)
	routeClient := routing.NewClient(routing.Config{
		BaseURL: p.RoutingBaseURL,
		APIKey:  p.RoutingAPIKey,
		Timeout: p.Timeout,
	}, logger)
	narratorClient := narrator.NewClient(narrator.Config{
		BaseURL:     p.NarratorBaseURL,
		APIKey:      p.NarratorAPIKey,
		Model:       p.NarratorModel,
		Temperature: p.NarratorTemp,
		Timeout:     p.Timeout,
	}, logger)

	logger.Info("providers configured",
		"weather", p.WeatherAPIKey != "",
		"narrator", p.NarratorAPIKey != "",
		"routing", p.RoutingAPIKey != "",
		"models", p.ModelURL != "",
	)

	registry := profiles.NewRegistry()
	spoilageEngine := spoilage.NewEngine(registry)
	bypassEngine := bypass.NewEngine(cfg.Scoring)
	surgeSvc := surge.NewService(repo, cacheImpl, cfg.Scoring.ForecastTTL, logger)
	marketSvc := market.NewService(repo, cacheImpl, cfg.Scoring.ForecastTTL, logger)

	comp := composer.New(composer.Deps{
		Registry:            registry,
		Spoilage:            spoilageEngine,
		Bypass:              bypassEngine,
		Rules:               engine,
		Surge:               surgeSvc,
		Market:              marketSvc,
		Weather:             weatherClient,
		Outlook:             weatherClient,
		Prices:              modelClient,
		Suitability:         modelClient,
		Routes:              routeClient,
		Narrator:            narratorClient,
		Timeout:             p.Timeout,
		DefaultTransitHours: cfg.Scoring.DefaultTransitHours,
		Logger:              logger,
	})

	var asyncWorker *worker.Worker
	if cfg.Worker.Enabled {
		asyncWorker = worker.NewWorker(busImpl, repo, comp, logger)
		if err := asyncWorker.Start(); err != nil {
			logger.Error("failed to start async worker", "error", err)
			asyncWorker = nil
		}
	}

	srv := api.NewServer(cfg.Server, api.Services{
		Repo:                repo,
		Cache:               cacheImpl,
		Bus:                 busImpl,
		Registry:            registry,
		Spoilage:            spoilageEngine,
		Bypass:              bypassEngine,
		Surge:               surgeSvc,
		Market:              marketSvc,
		Weather:             weatherClient,
		Rules:               engine,
		Composer:            comp,
		DefaultTransitHours: cfg.Scoring.DefaultTransitHours,
		Version:             Version,
		Logger:              logger,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.Info("agrichain is ready", "host", cfg.Server.Host, "port", cfg.Server.Port)

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	// Stop the worker first so in-flight insights are stored.
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			logger.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("agrichain shutdown complete")
	return nil
}
