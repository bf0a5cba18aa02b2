// Package entitlement implements the free-tier gate: non-premium identities
// may hold at most FreeTierLimit transactions. The premium flag is read
// fresh on every check so an upgrade is honored on the very next add.
package entitlement

import (
	"context"
	"fmt"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

// FreeTierLimit is the transaction ceiling for non-premium identities.
const FreeTierLimit = 50

// Allowed is the single gating rule.
func Allowed(premium bool, count int) bool {
	return premium || count < FreeTierLimit
}

// HasReachedLimit mirrors the presentation-facing flag.
func HasReachedLimit(premium bool, count int) bool {
	return !premium && count >= FreeTierLimit
}

// Gate checks adds against the live entitlement state. No caching or
// debounce: a stale premium flag would block a just-upgraded identity.
type Gate struct {
	profiles remote.ProfileReader
}

func NewGate(profiles remote.ProfileReader) *Gate {
	return &Gate{profiles: profiles}
}

// Check returns core.ErrLimitReached when an add must be rejected, before
// any remote write is attempted. count is the caller's current collection
// size at the moment of the call.
func (g *Gate) Check(ctx context.Context, ownerID string, count int) error {
	premium, err := g.profiles.Premium(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("premium lookup: %w", err)
	}
	if !Allowed(premium, count) {
		return core.ErrLimitReached
	}
	return nil
}

// Premium exposes the live flag for status reporting.
func (g *Gate) Premium(ctx context.Context, ownerID string) (bool, error) {
	return g.profiles.Premium(ctx, ownerID)
}

// AllowAll is the demo-mode gate: no ceiling, never premium. Demo mode is
// documented to the user as having no real persistence or limits.
type AllowAll struct{}

func (AllowAll) Check(context.Context, string, int) error { return nil }

func (AllowAll) Premium(context.Context, string) (bool, error) { return false, nil }
