package travelql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	dbRedis "github.com/kailas-cloud/travelql/internal/db/redis"
	"github.com/kailas-cloud/travelql/internal/logger"
	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
	resolveruc "github.com/kailas-cloud/travelql/internal/usecase/resolver"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_UnknownPolicy(t *testing.T) {
	_, err := New(context.Background(),
		WithRedis("localhost:6379", ""),
		WithFailurePolicy("retry"),
	)
	if !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestNew_UnknownFieldPolicy(t *testing.T) {
	_, err := New(context.Background(),
		WithRedis("localhost:6379", ""),
		WithFieldPolicy("hotelsByCity", Surface),
	)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := &clientConfig{driver: "unknown", addrs: []string{"localhost:1234"}}
	_, err := createStore(cfg)
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	reg := prometheus.NewRegistry()
	l := zap.NewNop()

	opts := []Option{
		WithValkey("valkey:6379", "secret"),
		WithUsername("app"),
		WithIndex("custom:idx"),
		WithMaxResults(50),
		WithQueryTimeout(2 * time.Second),
		WithReadinessTimeout(time.Second),
		WithFailurePolicy(Surface),
		WithFieldPolicy(FieldAirlineByKey, Degrade),
		WithLogger(l),
		WithPrometheus(reg),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if len(cfg.addrs) != 1 || cfg.addrs[0] != "valkey:6379" {
		t.Errorf("addrs = %v", cfg.addrs)
	}
	if cfg.password != "secret" || cfg.username != "app" {
		t.Errorf("credentials = %q/%q", cfg.username, cfg.password)
	}
	if cfg.index != "custom:idx" {
		t.Errorf("index = %q", cfg.index)
	}
	if cfg.maxResults != 50 {
		t.Errorf("maxResults = %d", cfg.maxResults)
	}
	if cfg.queryTimeout != 2*time.Second || cfg.readinessTimeout != time.Second {
		t.Errorf("timeouts = %v/%v", cfg.queryTimeout, cfg.readinessTimeout)
	}
	if cfg.policy != Surface {
		t.Errorf("policy = %q", cfg.policy)
	}
	if cfg.fieldPolicies[FieldAirlineByKey] != Degrade {
		t.Errorf("field policies = %v", cfg.fieldPolicies)
	}
	if cfg.logger != l || cfg.metricsReg != reg {
		t.Error("logger or registerer not set")
	}

	WithRedis("redis:6379", "").apply(cfg)
	if cfg.driver != "redis" {
		t.Errorf("driver = %q, want redis", cfg.driver)
	}
}

func TestBuildResolverConfig(t *testing.T) {
	cfg := &clientConfig{
		fieldPolicies: map[string]FailurePolicy{FieldAirportsByCountry: Surface},
	}
	got, err := buildResolverConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Policy != resolveruc.PolicyDegrade {
		t.Errorf("default policy = %q, want degrade", got.Policy)
	}
	if got.FieldPolicies[FieldAirportsByCountry] != resolveruc.PolicySurface {
		t.Errorf("field policies = %v", got.FieldPolicies)
	}
}

func TestClient_Delegates(t *testing.T) {
	c := testClient(&mockResolver{
		airlinesFn: func(_ context.Context, country string) ([]Airline, error) {
			if country != "France" {
				t.Errorf("country = %q", country)
			}
			return []Airline{{ID: intPtr(1), DocKey: "airline_1"}}, nil
		},
		airportsFn: func(_ context.Context, country string) ([]Airport, error) {
			return []Airport{}, nil
		},
		byKeyFn: func(_ context.Context, id int64) (*Airline, error) {
			if id != 10 {
				t.Errorf("id = %d", id)
			}
			return nil, nil
		},
	}, nil)

	ctx := context.Background()
	airlines, err := c.AirlinesByCountry(ctx, "France")
	if err != nil || len(airlines) != 1 || airlines[0].DocKey != "airline_1" {
		t.Errorf("AirlinesByCountry = %v, %v", airlines, err)
	}
	airports, err := c.AirportsByCountry(ctx, "Nowhere")
	if err != nil || airports == nil || len(airports) != 0 {
		t.Errorf("AirportsByCountry = %v, %v; want empty non-nil", airports, err)
	}
	airline, err := c.AirlineByKey(ctx, 10)
	if err != nil || airline != nil {
		t.Errorf("AirlineByKey = %v, %v; want nil, nil", airline, err)
	}
}

func TestClient_InjectsLogger(t *testing.T) {
	sdkLogger := zap.NewNop()
	callerLogger := zap.NewExample()

	var got *zap.Logger
	c := testClient(&mockResolver{
		airlinesFn: func(ctx context.Context, _ string) ([]Airline, error) {
			got = logger.FromContext(ctx)
			return nil, nil
		},
	}, &observer{logger: sdkLogger})

	_, _ = c.AirlinesByCountry(context.Background(), "France")
	if got != sdkLogger {
		t.Error("expected SDK logger in resolver context")
	}

	ctx := logger.ContextWithLogger(context.Background(), callerLogger)
	_, _ = c.AirlinesByCountry(ctx, "France")
	if got != callerLogger {
		t.Error("caller logger must not be replaced")
	}
}

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "index": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q", h.Status)
	}
	if h.Checks["index"] != "error" || h.Checks["database"] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}

// --- wired client over a mocked rueidis connection ---

func wiredClient(t *testing.T, opts ...Option) (*Client, *mock.Client, *prometheus.Registry, *zapobserver.ObservedLogs) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)

	core, logs := zapobserver.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()

	cfg := &clientConfig{index: "travel:idx", logger: zap.New(core), metricsReg: reg}
	for _, o := range opts {
		o.apply(cfg)
	}
	resolverCfg, err := buildResolverConfig(cfg)
	if err != nil {
		t.Fatalf("resolver config: %v", err)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		t.Fatalf("observer: %v", err)
	}
	return wireClient(dbRedis.NewStoreForTest(rc), cfg, resolverCfg, obs), rc, reg, logs
}

func TestWiredClient_AirlineByKey(t *testing.T) {
	c, rc, _, _ := wiredClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("JSON.GET", "airline_10", "$")).
		Return(mock.Result(mock.RedisString(
			`[{"id":10,"type":"airline","name":"40-Mile Air","callsign":"MILE-AIR","country":"United States"}]`,
		)))

	got, err := c.AirlineByKey(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected airline, got nil")
	}
	if got.DocKey != "airline_10" {
		t.Errorf("docKey = %q", got.DocKey)
	}
	if got.Name == nil || *got.Name != "40-Mile Air" {
		t.Errorf("name = %v", got.Name)
	}
	if got.IATA != nil {
		t.Errorf("iata = %v, want nil", *got.IATA)
	}
}

func TestWiredClient_DegradesWhenStoreDown(t *testing.T) {
	c, rc, reg, logs := wiredClient(t)

	rc.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"))).
		Times(3)

	ctx := context.Background()
	airlines, err := c.AirlinesByCountry(ctx, "France")
	if err != nil || airlines != nil {
		t.Errorf("AirlinesByCountry = %v, %v; want nil, nil", airlines, err)
	}
	airports, err := c.AirportsByCountry(ctx, "France")
	if err != nil || airports != nil {
		t.Errorf("AirportsByCountry = %v, %v; want nil, nil", airports, err)
	}
	airline, err := c.AirlineByKey(ctx, 10)
	if err != nil || airline != nil {
		t.Errorf("AirlineByKey = %v, %v; want nil, nil", airline, err)
	}

	if n := logs.FilterMessage("Field resolution degraded to null").Len(); n != 3 {
		t.Errorf("degraded log entries = %d, want 3", n)
	}
	n, err := testutil.GatherAndCount(reg, "travelql_sdk_store_errors_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 3 {
		t.Errorf("store error series = %d, want 3", n)
	}
}

func TestWiredClient_SurfacePolicy(t *testing.T) {
	c, rc, _, _ := wiredClient(t, WithFailurePolicy(Surface))

	rc.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("dial tcp: i/o timeout")))

	_, err := c.AirlinesByCountry(context.Background(), "France")
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Code() != CodeStoreUnavailable {
		t.Errorf("code = %q", fe.Code())
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable = false, want true")
	}
}

func TestWiredClient_Ping(t *testing.T) {
	c, rc, reg, _ := wiredClient(t)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))
	rc.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}

	m, err := newSDKMetrics(reg)
	if err != nil {
		t.Fatalf("reuse metrics: %v", err)
	}
	if v := testutil.ToFloat64(m.operations.WithLabelValues("ping", "success")); v != 1 {
		t.Errorf("ping success = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.operations.WithLabelValues("ping", "failed")); v != 1 {
		t.Errorf("ping failed = %v, want 1", v)
	}
}

func TestIsUnavailable_Plain(t *testing.T) {
	if IsUnavailable(nil) {
		t.Error("nil error reported unavailable")
	}
	if IsUnavailable(errors.New("boom")) {
		t.Error("unclassified error reported unavailable")
	}
}
