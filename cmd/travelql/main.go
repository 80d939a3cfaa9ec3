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

	"github.com/kailas-cloud/travelql/internal/config"
	"github.com/kailas-cloud/travelql/internal/db"
	dbRedis "github.com/kailas-cloud/travelql/internal/db/redis"
	dbValkey "github.com/kailas-cloud/travelql/internal/db/valkey"
	logpkg "github.com/kailas-cloud/travelql/internal/logger"
	"github.com/kailas-cloud/travelql/internal/metrics"
	travelrepo "github.com/kailas-cloud/travelql/internal/repository/travel"
	chiTransport "github.com/kailas-cloud/travelql/internal/transport/chi"
	gqlTransport "github.com/kailas-cloud/travelql/internal/transport/graphql"
	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
	resolveruc "github.com/kailas-cloud/travelql/internal/usecase/resolver"
	"github.com/kailas-cloud/travelql/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting travelql server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("failure_policy", cfg.Resolver.FailurePolicy),
	)

	store, err := openStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	checkIndex(ctx, store, cfg.Index.Name, logger)

	// Register resolver metrics explicitly (no init())
	metrics.RegisterResolverMetrics()

	resolverCfg, err := resolverConfig(cfg.Resolver)
	if err != nil {
		logger.Fatal("Invalid resolver config", zap.Error(err))
	}

	repo := travelrepo.New(store, travelrepo.Config{
		Index:      cfg.Index.Name,
		MaxResults: cfg.Query.MaxResults,
	})
	resolverSvc := resolveruc.New(repo, resolverCfg, metrics.ResolverRecorder{})

	schema, err := gqlTransport.NewSchema(resolverSvc)
	if err != nil {
		logger.Fatal("Failed to build GraphQL schema", zap.Error(err))
	}

	healthSvc := healthuc.New(store, store, cfg.Index.Name)

	server := chiTransport.NewServer(gqlTransport.NewExecutor(schema), healthSvc, logger, chiTransport.Config{
		Path:     cfg.GraphQL.Path,
		Explorer: cfg.GraphQL.ExplorerEnabled(),
	})
	r := chiTransport.NewRouter(server, cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr), zap.String("graphql_path", cfg.GraphQL.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the database store for the configured driver.
func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	redisCfg := dbRedis.Config{
		Addrs:        cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		QueryTimeout: time.Duration(cfg.QueryTimeoutMs) * time.Millisecond,
	}
	switch cfg.Driver {
	case config.DriverValkey:
		return dbValkey.NewStore(redisCfg)
	case config.DriverRedis:
		return dbRedis.NewStore(redisCfg)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// checkIndex logs the expected index definition when the index is missing.
// travelql never creates the index itself.
func checkIndex(ctx context.Context, store db.IndexInspector, name string, logger *zap.Logger) {
	ok, err := store.IndexExists(ctx, name)
	if err != nil {
		logger.Warn("Index check failed", zap.String("index", name), zap.Error(err))
		return
	}
	if ok {
		logger.Info("Index found", zap.String("index", name))
		return
	}
	def, err := travelrepo.IndexDefinition(name)
	if err != nil {
		logger.Error("Invalid index definition", zap.String("index", name), zap.Error(err))
		return
	}
	logger.Warn("Index missing; byCountry queries will fail until it is created",
		zap.String("index", name),
		zap.String("definition", def.String()),
	)
}

func resolverConfig(cfg config.ResolverConfig) (resolveruc.Config, error) {
	policy, err := resolveruc.ParsePolicy(cfg.FailurePolicy)
	if err != nil {
		return resolveruc.Config{}, err
	}
	fields := make(map[string]resolveruc.Policy, len(cfg.FieldPolicies))
	for field, p := range cfg.FieldPolicies {
		fp, err := resolveruc.ParsePolicy(p)
		if err != nil {
			return resolveruc.Config{}, fmt.Errorf("field %s: %w", field, err)
		}
		fields[field] = fp
	}
	return resolveruc.Config{Policy: policy, FieldPolicies: fields}, nil
}
