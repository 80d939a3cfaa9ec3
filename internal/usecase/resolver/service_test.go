package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/travelql/internal/db"
	"github.com/kailas-cloud/travelql/internal/domain/travel"
)

var (
	errConn  = &db.Error{Op: db.OpSearch, Kind: db.KindConnection, Err: errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")}
	errQuery = &db.Error{Op: db.OpSearch, Kind: db.KindQuery, Err: errors.New("Syntax error at offset 3")}
)

// storeDown makes every repository call fail as if the store were unreachable.
func storeDown(repo *mockRepo) {
	repo.airlinesFn = func(context.Context, string) ([]travel.Airline, error) { return nil, errConn }
	repo.airportsFn = func(context.Context, string) ([]travel.Airport, error) { return nil, errConn }
	repo.airlineByFn = func(context.Context, int64) (*travel.Airline, error) { return nil, errConn }
}

// --- byCountry ---

func TestAirlinesByCountry_Success(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{})

	repo.airlinesFn = func(_ context.Context, country string) ([]travel.Airline, error) {
		if country != "France" {
			t.Errorf("unexpected country: %s", country)
		}
		return []travel.Airline{{ID: intPtr(137), Country: strPtr("France"), DocKey: "airline_137"}}, nil
	}

	got, err := svc.AirlinesByCountry(context.Background(), "France")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].DocKey != "airline_137" {
		t.Errorf("unexpected airlines: %+v", got)
	}
	if r := rec.last(t); r.field != FieldAirlinesByCountry || r.outcome != OutcomeSuccess {
		t.Errorf("recorded %+v", r)
	}
}

func TestAirportsByCountry_ZeroMatchesIsEmptyNotNull(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{})

	repo.airportsFn = func(context.Context, string) ([]travel.Airport, error) { return nil, nil }

	got, err := svc.AirportsByCountry(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("zero matches must resolve to an empty list, not null")
	}
	if len(got) != 0 {
		t.Errorf("expected no airports, got %d", len(got))
	}
	if r := rec.last(t); r.outcome != OutcomeEmpty {
		t.Errorf("outcome = %q, want %q", r.outcome, OutcomeEmpty)
	}
}

// --- Degrade policy ---

func TestStoreDown_EveryFieldResolvesToNull(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{})
	storeDown(repo)
	ctx, logs := observedContext(t)

	airlines, err := svc.AirlinesByCountry(ctx, "France")
	if err != nil || airlines != nil {
		t.Errorf("airlinesByCountry = (%v, %v), want (nil, nil)", airlines, err)
	}
	airports, err := svc.AirportsByCountry(ctx, "France")
	if err != nil || airports != nil {
		t.Errorf("airportsByCountry = (%v, %v), want (nil, nil)", airports, err)
	}
	airline, err := svc.AirlineByKey(ctx, 10)
	if err != nil || airline != nil {
		t.Errorf("airlineByKey = (%v, %v), want (nil, nil)", airline, err)
	}

	for _, r := range rec.resolutions {
		if r.outcome != OutcomeDegraded {
			t.Errorf("%s outcome = %q, want %q", r.field, r.outcome, OutcomeDegraded)
		}
	}
	if len(rec.storeErrors) != 3 {
		t.Errorf("expected 3 store errors, got %v", rec.storeErrors)
	}

	entries := logs.FilterMessage("Field resolution degraded to null").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 degrade logs, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["field"] != FieldAirlinesByCountry || fields["error_kind"] != "connection" || fields["country"] != "France" {
		t.Errorf("unexpected log context: %v", fields)
	}
}

func TestDegrade_QueryFailure(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{Policy: PolicyDegrade})

	repo.airportsFn = func(context.Context, string) ([]travel.Airport, error) { return nil, errQuery }

	got, err := svc.AirportsByCountry(context.Background(), "France")
	if err != nil || got != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", got, err)
	}
	if rec.storeErrors[0] != FieldAirportsByCountry+":query" {
		t.Errorf("store error = %q", rec.storeErrors[0])
	}
}

// --- Surface policy ---

func TestSurface_ReturnsFieldError(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{Policy: PolicySurface})
	storeDown(repo)

	_, err := svc.AirlinesByCountry(context.Background(), "France")

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Field != FieldAirlinesByCountry || fe.Kind != db.KindConnection {
		t.Errorf("unexpected field error: %+v", fe)
	}
	if fe.Code() != CodeStoreUnavailable {
		t.Errorf("code = %q, want %q", fe.Code(), CodeStoreUnavailable)
	}
	if fe.Error() != "store unavailable" {
		t.Errorf("message leaks internals: %q", fe.Error())
	}
	if !errors.Is(err, errConn) {
		t.Error("expected FieldError to unwrap to the store error")
	}
	if r := rec.last(t); r.outcome != OutcomeFailed {
		t.Errorf("outcome = %q, want %q", r.outcome, OutcomeFailed)
	}
}

func TestSurface_QueryFailureCode(t *testing.T) {
	svc, repo, _ := newTestService(t, Config{Policy: PolicySurface})
	repo.airportsFn = func(context.Context, string) ([]travel.Airport, error) { return nil, errQuery }

	_, err := svc.AirportsByCountry(context.Background(), "France")

	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %v", err)
	}
	if fe.Code() != CodeStoreQueryFailed || fe.Error() != "store query failed" {
		t.Errorf("code=%q message=%q", fe.Code(), fe.Error())
	}
}

func TestFieldPolicies_OverrideGlobal(t *testing.T) {
	svc, repo, _ := newTestService(t, Config{
		Policy:        PolicyDegrade,
		FieldPolicies: map[string]Policy{FieldAirlineByKey: PolicySurface},
	})
	storeDown(repo)
	ctx := context.Background()

	if _, err := svc.AirlinesByCountry(ctx, "France"); err != nil {
		t.Errorf("airlinesByCountry should degrade, got %v", err)
	}
	if _, err := svc.AirlineByKey(ctx, 10); err == nil {
		t.Error("airlineByKey should surface")
	}
	if svc.PolicyFor(FieldAirportsByCountry) != PolicyDegrade {
		t.Errorf("unexpected policy for %s", FieldAirportsByCountry)
	}
}

// --- airlineByKey ---

func TestAirlineByKey_Present(t *testing.T) {
	svc, repo, rec := newTestService(t, Config{})

	repo.airlineByFn = func(_ context.Context, id int64) (*travel.Airline, error) {
		key := travel.DeriveKey(travel.KindAirline, id)
		return &travel.Airline{ID: intPtr(id), Name: strPtr("40-Mile Air"), DocKey: key}, nil
	}

	got, err := svc.AirlineByKey(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got.ID != 10 || got.DocKey != "airline_10" {
		t.Errorf("unexpected airline: %+v", got)
	}
	if r := rec.last(t); r.outcome != OutcomeSuccess {
		t.Errorf("outcome = %q", r.outcome)
	}
}

func TestAirlineByKey_AbsentIsNullWithoutError(t *testing.T) {
	svc, _, rec := newTestService(t, Config{Policy: PolicySurface})

	got, err := svc.AirlineByKey(context.Background(), 999999)
	if err != nil {
		t.Fatalf("a miss is not a failure, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if r := rec.last(t); r.outcome != OutcomeNotFound {
		t.Errorf("outcome = %q, want %q", r.outcome, OutcomeNotFound)
	}
	if len(rec.storeErrors) != 0 {
		t.Errorf("a miss must not count as a store error: %v", rec.storeErrors)
	}
}

func TestAirlineByKey_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t, Config{})

	calls := 0
	repo.airlineByFn = func(_ context.Context, id int64) (*travel.Airline, error) {
		calls++
		return &travel.Airline{ID: intPtr(id), DocKey: travel.DeriveKey(travel.KindAirline, id)}, nil
	}

	ctx := context.Background()
	a, errA := svc.AirlineByKey(ctx, 137)
	b, errB := svc.AirlineByKey(ctx, 137)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if *a.ID != *b.ID || a.DocKey != b.DocKey {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
	if calls != 2 {
		t.Errorf("expected one store call per invocation, got %d", calls)
	}
}

// --- Policy ---

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyDegrade, false},
		{"degrade", PolicyDegrade, false},
		{"surface", PolicySurface, false},
		{"panic", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v", tc.in, err)
		}
		if err != nil && !errors.Is(err, ErrUnknownPolicy) {
			t.Errorf("ParsePolicy(%q): expected ErrUnknownPolicy, got %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParsePolicy(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNew_NilRecorder(t *testing.T) {
	svc := New(&mockRepo{}, Config{}, nil)
	if _, err := svc.AirlineByKey(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
