package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/strideworks/stride/internal/config"
	"github.com/strideworks/stride/internal/db"
	"github.com/strideworks/stride/internal/intelligence"
	"github.com/strideworks/stride/internal/provider"
	"github.com/strideworks/stride/internal/repository"
	"github.com/strideworks/stride/internal/service"
)

// engine is the fully wired turn-routing stack plus the resources it
// owns.
type engine struct {
	router service.RouterService
	db     *sql.DB
	redis  *repository.RedisAnalysisCacheRepo
}

func (e *engine) Close() {
	if e.redis != nil {
		if err := e.redis.Close(); err != nil {
			slog.Error("Failed to close redis", "error", err)
		}
	}
	if err := e.db.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// buildEngine wires repositories, provider client, and services from
// config. The analysis cache lives in Redis when REDIS_URL is set,
// otherwise in sqlite next to the conversations.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine, error) {
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	conversations := repository.NewSQLiteConversationRepo(database)
	personas := repository.NewSQLitePersonaRepo(database)

	var (
		cache repository.AnalysisCacheRepo
		redis *repository.RedisAnalysisCacheRepo
	)
	if cfg.RedisURL != "" {
		redis, err = repository.NewRedisAnalysisCacheRepo(ctx, cfg.RedisURL, cfg.CacheFreshness)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		cache = redis
	} else {
		cache = repository.NewSQLiteAnalysisCacheRepo(database)
	}

	client := provider.NewHTTPClient(cfg.Provider, provider.NewLogObserver(os.Stderr))

	contexts := service.NewContextService(conversations, cache)
	personaSvc := service.NewPersonaService(personas, client, cfg.PersonaRefreshEvery)
	plans := service.NewPlanService(contexts, client)
	classifier := intelligence.NewPatternClassifier(intelligence.DefaultClassifierConfig())

	router := service.NewRouterService(
		service.RouterConfig{
			CacheFreshness:       cfg.CacheFreshness,
			ContextClassifier:    cfg.ContextClassifier,
			ClassifierTurnWindow: cfg.ClassifierTurnWindow,
		},
		contexts, personaSvc, plans, classifier, client,
		service.NewLogTurnObserver(os.Stderr),
	)

	return &engine{router: router, db: database, redis: redis}, nil
}
