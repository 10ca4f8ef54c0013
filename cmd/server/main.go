package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Sahiljangra115/Aurora-chat/internal/analytics"
	"github.com/Sahiljangra115/Aurora-chat/internal/cli"
	"github.com/Sahiljangra115/Aurora-chat/internal/config"
	"github.com/Sahiljangra115/Aurora-chat/internal/gateway"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm/ollama"
	"github.com/Sahiljangra115/Aurora-chat/internal/llm/openrouter"
	"github.com/Sahiljangra115/Aurora-chat/internal/platform/logger"
	"github.com/Sahiljangra115/Aurora-chat/internal/platform/otel"
	"github.com/Sahiljangra115/Aurora-chat/internal/registry"
	"github.com/Sahiljangra115/Aurora-chat/internal/server"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/cache"
	"github.com/Sahiljangra115/Aurora-chat/internal/store/sqlite"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: logger.ShouldEnableColor(),
	})
	log := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(cfg.Tracing.ServiceName, version, log, os.Stdout)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				log.Warn("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	reg, err := registry.New(cfg.Catalog, cfg.Ollama.Enabled)
	if err != nil {
		return fmt.Errorf("build provider registry: %w", err)
	}
	if _, ok := reg.Lookup(cfg.DefaultProvider); !ok {
		log.Warn("Default provider is not registered; requests without a provider will be rejected",
			zap.String("default_provider", cfg.DefaultProvider))
	}

	remote := openrouter.New(openrouter.Config{
		BaseURL: cfg.OpenRouter.APIBase,
		Referer: cfg.OpenRouter.Referer,
		Title:   cfg.OpenRouter.Title,
	}, log.Named("openrouter"))
	local := ollama.New(cfg.Ollama.APIBase, log.Named("ollama"))

	if cfg.Ollama.Enabled {
		checkLocalServer(ctx, local, cfg.Ollama.MinVersion, log)
	}

	modelCache, closeCache, err := buildCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	var (
		ingestor     analytics.Ingestor = analytics.Noop{}
		analyticsSvc analytics.Service
	)
	if cfg.Analytics.Enabled {
		repo, err := sqlite.NewSQLiteStorage(cfg.Analytics.DSN)
		if err != nil {
			return fmt.Errorf("open request log store: %w", err)
		}
		defer func() { _ = repo.Close() }()

		ingestor = analytics.NewIngestor(log.Named("analytics"), repo)
		ingestor.Start(context.Background())
		// stop before the repository closes so queued logs are flushed
		defer ingestor.Stop()

		analyticsSvc = analytics.NewService(repo)
		log.Info("Request analytics enabled")
	}

	svc := gateway.NewService(gateway.Settings{
		DefaultProvider:   cfg.DefaultProvider,
		DefaultCredential: cfg.OpenRouter.APIKey,
		ModelsTTL:         cfg.Cache.ModelsTTL,
	}, gateway.Dependencies{
		Registry: reg,
		Remote:   remote,
		Local:    local,
		Ingestor: ingestor,
		Cache:    modelCache,
		Logger:   log.Named("gateway"),
	})

	printProviders(reg.List(), cfg.DefaultProvider)

	srv := server.New(cfg, log, svc, analyticsSvc)
	httpServer := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Aurora Chat listening", zap.String("addr", httpServer.Addr), zap.String("version", version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// checkLocalServer warns when the local model server is unreachable or too
// old for /api/chat. It never blocks startup.
func checkLocalServer(ctx context.Context, local *ollama.Client, minimum string, log *zap.Logger) {
	if minimum == "" {
		minimum = ollama.MinimumVersion
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := local.CheckVersion(checkCtx, minimum)
	if err != nil {
		log.Warn(fmt.Sprintf("%s %s", cli.WarningSign(), cli.Style("Local model server check failed", cli.Yellow)),
			zap.Error(err))
		return
	}
	log.Info("Local model server detected", zap.String("version", v.String()))
}

func buildCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.CacheService, func(), error) {
	noop := func() {}
	if cfg.Cache.ModelsTTL <= 0 {
		return nil, noop, nil
	}

	if !cfg.Redis.Enabled {
		log.Info("Caching model listings in memory", zap.Duration("ttl", cfg.Cache.ModelsTTL))
		return cache.NewMemoryCache(), noop, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.DialRedis(dialCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, noop, fmt.Errorf("connect model cache: %w", err)
	}
	log.Info("Caching model listings in redis",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("ttl", cfg.Cache.ModelsTTL))

	return cache.NewRedisCache(client, "aurora:"), func() { _ = client.Close() }, nil
}

func printProviders(providers []registry.Provider, defaultID string) {
	fmt.Println(cli.Style("Providers", cli.Bold))
	for _, p := range providers {
		fmt.Println("  " + cli.ProviderLine(p.ID, string(p.Kind), p.DefaultModel, p.ID == defaultID))
	}
}
