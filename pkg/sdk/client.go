package travelql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/travelql/internal/db"
	dbRedis "github.com/kailas-cloud/travelql/internal/db/redis"
	dbValkey "github.com/kailas-cloud/travelql/internal/db/valkey"
	"github.com/kailas-cloud/travelql/internal/logger"
	travelrepo "github.com/kailas-cloud/travelql/internal/repository/travel"
	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
	resolveruc "github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type resolverUseCase interface {
	AirlinesByCountry(ctx context.Context, country string) ([]Airline, error)
	AirportsByCountry(ctx context.Context, country string) ([]Airport, error)
	AirlineByKey(ctx context.Context, id int64) (*Airline, error)
}

// Client is the travelql SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	resolver  resolverUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		index:            travelrepo.DefaultIndex,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("travelql: database address required (use WithValkey or WithRedis)")
	}
	resolverCfg, err := buildResolverConfig(cfg)
	if err != nil {
		return nil, err
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("travelql: database not ready: %w", err)
	}

	return wireClient(store, cfg, resolverCfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	redisCfg := dbRedis.Config{
		Addrs:        cfg.addrs,
		Username:     cfg.username,
		Password:     cfg.password,
		QueryTimeout: cfg.queryTimeout,
	}
	switch cfg.driver {
	case "valkey":
		s, err := dbValkey.NewStore(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("travelql: create valkey store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := dbRedis.NewStore(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("travelql: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("travelql: unknown driver %q", cfg.driver)
	}
}

func buildResolverConfig(cfg *clientConfig) (resolveruc.Config, error) {
	policy, err := resolveruc.ParsePolicy(string(cfg.policy))
	if err != nil {
		return resolveruc.Config{}, fmt.Errorf("travelql: %w", err)
	}
	fields := make(map[string]resolveruc.Policy, len(cfg.fieldPolicies))
	for field, p := range cfg.fieldPolicies {
		if !knownField(field) {
			return resolveruc.Config{}, fmt.Errorf("travelql: unknown field %q", field)
		}
		fp, err := resolveruc.ParsePolicy(string(p))
		if err != nil {
			return resolveruc.Config{}, fmt.Errorf("travelql: field %s: %w", field, err)
		}
		fields[field] = fp
	}
	return resolveruc.Config{Policy: policy, FieldPolicies: fields}, nil
}

func knownField(name string) bool {
	for _, f := range resolveruc.Fields {
		if f == name {
			return true
		}
	}
	return false
}

func wireClient(store db.Store, cfg *clientConfig, resolverCfg resolveruc.Config, obs *observer) *Client {
	repo := travelrepo.New(store, travelrepo.Config{
		Index:      cfg.index,
		MaxResults: cfg.maxResults,
	})
	return &Client{
		store:     store,
		resolver:  resolveruc.New(repo, resolverCfg, obs),
		healthSvc: healthuc.New(store, store, cfg.index),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// AirlinesByCountry returns the airlines whose country equals country, in
// store order. It returns an empty slice when nothing matches and nil when
// the store failed under the Degrade policy.
func (c *Client) AirlinesByCountry(ctx context.Context, country string) ([]Airline, error) {
	return c.resolver.AirlinesByCountry(c.withLogger(ctx), country)
}

// AirportsByCountry returns the airports whose country equals country.
func (c *Client) AirportsByCountry(ctx context.Context, country string) ([]Airport, error) {
	return c.resolver.AirportsByCountry(c.withLogger(ctx), country)
}

// AirlineByKey returns the airline stored under "airline_<id>", or nil when
// there is none.
func (c *Client) AirlineByKey(ctx context.Context, id int64) (*Airline, error) {
	return c.resolver.AirlineByKey(c.withLogger(ctx), id)
}

// withLogger exposes the SDK logger to the resolvers unless the caller
// already placed one in ctx.
func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.obs == nil || c.obs.logger == nil {
		return ctx
	}
	if _, ok := logger.Lookup(ctx); ok {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.obs.logger)
}
