package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
)

type profileStub struct {
	premium bool
	err     error
	calls   int
}

func (p *profileStub) Premium(context.Context, string) (bool, error) {
	p.calls++
	return p.premium, p.err
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		premium bool
		count   int
		want    bool
	}{
		{false, 0, true},
		{false, 49, true},
		{false, 50, false},
		{false, 51, false},
		{true, 50, true},
		{true, 100000, true},
	}
	for _, tc := range cases {
		if got := Allowed(tc.premium, tc.count); got != tc.want {
			t.Fatalf("Allowed(%v, %d) = %v, want %v", tc.premium, tc.count, got, tc.want)
		}
	}
}

func TestHasReachedLimit(t *testing.T) {
	if HasReachedLimit(false, 49) {
		t.Fatal("49 is under the ceiling")
	}
	if !HasReachedLimit(false, 50) {
		t.Fatal("50 reaches the ceiling for non-premium")
	}
	if HasReachedLimit(true, 51) {
		t.Fatal("premium identities never reach the limit")
	}
}

func TestGateCheck(t *testing.T) {
	profiles := &profileStub{premium: false}
	g := NewGate(profiles)

	if err := g.Check(context.Background(), "o", 49); err != nil {
		t.Fatalf("49th add should pass: %v", err)
	}
	if err := g.Check(context.Background(), "o", 50); !errors.Is(err, core.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}
}

// The flag is read fresh on every check: an upgrade between two calls is
// honored immediately, with no caching.
func TestGateReflectsUpgradeImmediately(t *testing.T) {
	profiles := &profileStub{premium: false}
	g := NewGate(profiles)

	if err := g.Check(context.Background(), "o", 50); !errors.Is(err, core.ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached before upgrade, got %v", err)
	}

	profiles.premium = true
	if err := g.Check(context.Background(), "o", 50); err != nil {
		t.Fatalf("upgrade must be honored on the next attempt: %v", err)
	}
	if profiles.calls != 2 {
		t.Fatalf("expected a fresh lookup per check, got %d calls", profiles.calls)
	}
}

func TestGatePropagatesLookupFailure(t *testing.T) {
	profiles := &profileStub{err: errors.New("backend down")}
	g := NewGate(profiles)
	if err := g.Check(context.Background(), "o", 0); err == nil {
		t.Fatal("lookup failures must surface, not default to a decision")
	}
}

func TestAllowAll(t *testing.T) {
	var g AllowAll
	if err := g.Check(context.Background(), "o", 1_000_000); err != nil {
		t.Fatalf("demo gate must not enforce a ceiling: %v", err)
	}
}
