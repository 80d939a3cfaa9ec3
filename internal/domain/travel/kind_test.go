package travel

import (
	"errors"
	"testing"
)

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		kind Kind
		id   int64
		want string
	}{
		{KindAirline, 10, "airline_10"},
		{KindAirline, 0, "airline_0"},
		{KindAirport, 42, "airport_42"},
		{KindAirline, -5, "airline_-5"},
		{KindAirport, 9223372036854775807, "airport_9223372036854775807"},
	}
	for _, tc := range tests {
		if got := DeriveKey(tc.kind, tc.id); got != tc.want {
			t.Errorf("DeriveKey(%q, %d) = %q, want %q", tc.kind, tc.id, got, tc.want)
		}
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	a := DeriveKey(KindAirline, 137)
	b := DeriveKey(KindAirline, 137)
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestParseKey_RoundTrip(t *testing.T) {
	for _, kind := range Kinds {
		key := DeriveKey(kind, 1234)
		gotKind, gotID, err := ParseKey(key)
		if err != nil {
			t.Fatalf("ParseKey(%q): unexpected error: %v", key, err)
		}
		if gotKind != kind || gotID != 1234 {
			t.Errorf("ParseKey(%q) = (%q, %d)", key, gotKind, gotID)
		}
	}
}

func TestParseKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "airline", "route_10", "airline_abc", "airline_"} {
		if _, _, err := ParseKey(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ParseKey(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestKind_Valid(t *testing.T) {
	if !KindAirline.Valid() || !KindAirport.Valid() {
		t.Error("expected known kinds to be valid")
	}
	if Kind("route").Valid() {
		t.Error("expected route to be invalid")
	}
}
