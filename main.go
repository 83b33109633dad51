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

	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"

	"github.com/MKRNaqeebi/GenAlima/internal/adapter/kb"
	"github.com/MKRNaqeebi/GenAlima/internal/adapter/llm"
	"github.com/MKRNaqeebi/GenAlima/internal/adapter/retrieval"
	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/config"
	"github.com/MKRNaqeebi/GenAlima/internal/dispatch"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/handler"
	"github.com/MKRNaqeebi/GenAlima/internal/logging"
	"github.com/MKRNaqeebi/GenAlima/internal/metrics"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
	"github.com/MKRNaqeebi/GenAlima/internal/repository"
	"github.com/MKRNaqeebi/GenAlima/internal/service"
	transport "github.com/MKRNaqeebi/GenAlima/internal/transport/http"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Pretty).With().Str("service", cfg.ProjectName).Logger()
	if cfg.InsecureSecret() {
		logger.Warn().Msg("SECRET_KEY is the default placeholder, change it before deploying")
	}
	logger.Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.HTTP.Port).
		Msg("starting " + cfg.ProjectName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Store
	db, err := repository.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	seed, err := repository.LoadSeedFile(cfg.Seed.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load seed file")
	}
	if err := repository.Seed(ctx, db, seed, auth.HashPassword, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed store")
	}

	// Handler dependencies
	llmClient := llm.NewLLMClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.Dispatch.ModelTimeout, logger)

	var rdb *redis.Client
	kbSource := kb.NewRedisSource(nil, cfg.Redis.KeyPrefix)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis not reachable, knowledge base lookups will fail")
		}
		kbSource = kb.NewRedisSource(rdb, cfg.Redis.KeyPrefix)
		for _, doc := range seed.Documents {
			if err := kbSource.Put(ctx, doc); err != nil {
				logger.Warn().Err(err).Str("doc_id", doc.ID).Msg("failed to seed knowledge base document")
			}
		}
	}

	retriever := retrieval.NewClient(cfg.Retrieval.URL, cfg.Retrieval.APIKey, cfg.Retrieval.Timeout)

	registry := handler.NewRegistry()
	if err := handler.RegisterBuiltins(registry, handler.Deps{
		LLM:              llmClient,
		Retriever:        retriever,
		KnowledgeBase:    kbSource,
		KnowledgeBaseTop: cfg.Redis.TopN,
		Temperature:      cfg.OpenAI.Temperature,
		MaxHistoryTokens: cfg.OpenAI.MaxHistoryTokens,
		Logger:           logger,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to register handlers")
	}
	logger.Info().
		Strs("connectors", registry.Names(domain.NamespaceConnector)).
		Strs("models", registry.Names(domain.NamespaceModel)).
		Msg("handlers registered")

	// Core
	m := metrics.New()
	pipeline := dispatch.New(db, registry, dispatch.Options{
		ConnectorTimeout: cfg.Dispatch.ConnectorTimeout,
		ModelTimeout:     cfg.Dispatch.ModelTimeout,
		Metrics:          m,
	}, logger)

	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize policy engine")
	}
	issuer := auth.NewIssuer(cfg.Auth.SecretKey, cfg.Auth.AccessTokenTTL, cfg.Auth.Issuer)

	svc := service.New(db, pipeline, registry, policyEngine, issuer, service.Options{
		CompletionRate:  cfg.RateLimit.RequestsPerSecond,
		CompletionBurst: cfg.RateLimit.Burst,
		Provider:        llmClient,
	}, logger)

	server := transport.NewServer(transport.Deps{
		Config:  cfg,
		Service: svc,
		Issuer:  issuer,
		Users:   db,
		Metrics: m,
		Logger:  logger,
	})

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	})
	logger.Info().Int("port", cfg.HTTP.Port).Msg("api started")

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown http server gracefully")
	}
	wg.Wait()

	logger.Info().Msg("stopped")
}
