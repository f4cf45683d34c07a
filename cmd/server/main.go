package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FTI-LMS/LMS/internal/auth"
	"github.com/FTI-LMS/LMS/internal/clients"
	"github.com/FTI-LMS/LMS/internal/config"
	"github.com/FTI-LMS/LMS/internal/domain/repositories"
	catalogRepo "github.com/FTI-LMS/LMS/internal/domain/repositories/catalog"
	"github.com/FTI-LMS/LMS/internal/enrichment"
	"github.com/FTI-LMS/LMS/internal/graph"
	"github.com/FTI-LMS/LMS/internal/handler"
	"github.com/FTI-LMS/LMS/internal/repository/memory"
	"github.com/FTI-LMS/LMS/internal/repository/postgres"
	postgresCatalog "github.com/FTI-LMS/LMS/internal/repository/postgres/catalog"
	serviceCatalog "github.com/FTI-LMS/LMS/internal/service/catalog"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catalog store
	var (
		store     catalogRepo.Store
		txManager repositories.TransactionManager
	)
	switch cfg.Storage {
	case config.StorageMemory:
		store = memory.NewStore()
		logger.Warn("using in-memory catalog store, rows are lost on restart")
	default:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		logger.Info("database connected")

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to create schema: %v", err)
		}

		store = postgresCatalog.NewStore(&postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		})
		txManager = postgres.NewTransactionManager(pool, logger)
	}

	// Optional local token verification
	var verifier auth.TokenVerifier
	if cfg.AuthJWKSURL != "" {
		jwks, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create token verifier: %v", err)
		}
		defer jwks.Close()
		verifier = jwks
	}

	// Remote clients
	clientFactory := clients.NewFactory(
		graph.NewClient(cfg.GraphBaseURL, graph.DefaultTimeout),
		enrichment.NewClient(cfg.EnrichmentURL, cfg.EnrichmentTimeout),
	)

	// Services
	catalogService := serviceCatalog.NewCatalogService(store, clientFactory, txManager, serviceCatalog.Options{
		TraversalConcurrency:  cfg.TraversalConcurrency,
		EnrichmentConcurrency: cfg.EnrichmentConcurrency,
		ContinueOnError:       cfg.EnrichmentContinueOnError,
		Atomic:                cfg.PersistAtomic,
	}, logger)
	driveService := serviceCatalog.NewDriveService(clientFactory, logger)

	// Handlers
	graphHandler := handler.NewGraphHandler(driveService, catalogService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     newRouter(cfg, graphHandler, catalogHandler, verifier, logger),
		ReadTimeout: 15 * time.Second,
		// Disabled: a catalog build over a large tree can run for minutes
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
