package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KirkDiggler/witchfire-saves/internal/catalog"
	"github.com/KirkDiggler/witchfire-saves/internal/codec"
	"github.com/KirkDiggler/witchfire-saves/internal/config"
	"github.com/KirkDiggler/witchfire-saves/internal/errors"
	"github.com/KirkDiggler/witchfire-saves/internal/handlers/saveedit/v1alpha1"
	"github.com/KirkDiggler/witchfire-saves/internal/inventory"
	"github.com/KirkDiggler/witchfire-saves/internal/orchestrators/saveedit"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/clock"
	"github.com/KirkDiggler/witchfire-saves/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/witchfire-saves/internal/redis"
	savesession "github.com/KirkDiggler/witchfire-saves/internal/repositories/save_session"
)

// app is the fully wired service graph behind the gRPC server
type app struct {
	handler *v1alpha1.Handler
	close   func()
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	codecs, err := codec.NewSet(cat)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build codecs")
	}

	clk := clock.New()
	engine, err := inventory.NewEngine(&inventory.Config{
		Catalog: cat,
		Codecs:  codecs,
		Clock:   clk,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create inventory engine")
	}

	repo, closeRepo, err := newSessionRepository(ctx, cfg, clk, logger)
	if err != nil {
		return nil, err
	}

	svc, err := saveedit.NewOrchestrator(&saveedit.Config{
		SessionRepo:      repo,
		Engine:           engine,
		Catalog:          cat,
		IDGenerator:      idgen.NewUUID("sess"),
		MaxDocumentBytes: cfg.MaxDocumentBytes,
	})
	if err != nil {
		closeRepo()
		return nil, errors.Wrap(err, "failed to create save edit orchestrator")
	}

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{SaveEditService: svc})
	if err != nil {
		closeRepo()
		return nil, errors.Wrap(err, "failed to create save edit handler")
	}

	return &app{handler: handler, close: closeRepo}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read catalog").
			WithMeta("path", path)
	}
	return catalog.Parse(data)
}

func newSessionRepository(
	ctx context.Context,
	cfg *config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) (savesession.Repository, func(), error) {
	if cfg.Store != config.StoreRedis {
		repo, err := savesession.NewInMemory(&savesession.InMemoryConfig{Clock: clk, TTL: cfg.SessionTTL})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to create in-memory session store")
		}
		logger.InfoContext(ctx, "using in-memory session store")
		return repo, func() {}, nil
	}

	client, err := redisclient.NewClient(redisclient.Options{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		UseTLS:   cfg.Redis.TLS,
	})
	if err != nil {
		return nil, nil, err
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}

	if err := redisclient.Ping(ctx, client); err != nil {
		closeClient()
		return nil, nil, err
	}

	repo, err := savesession.NewRedisRepository(&savesession.Config{
		Client: client,
		Clock:  clk,
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		closeClient()
		return nil, nil, errors.Wrap(err, "failed to create redis session store")
	}

	logger.InfoContext(ctx, "using redis session store", "addrs", cfg.Redis.Addrs)
	return repo, closeClient, nil
}
