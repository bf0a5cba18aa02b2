package memory

import (
	"context"
	"sync"
)

// Profiles is an in-memory profile reader. Identities without a row are
// non-premium, matching the hosted backend's missing-profile behavior.
type Profiles struct {
	mu      sync.Mutex
	premium map[string]bool
}

func NewProfiles() *Profiles {
	return &Profiles{premium: make(map[string]bool)}
}

// Premium implements remote.ProfileReader.
func (p *Profiles) Premium(_ context.Context, ownerID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.premium[ownerID], nil
}

// SetPremium flips the entitlement flag for an identity.
func (p *Profiles) SetPremium(ownerID string, premium bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.premium[ownerID] = premium
}
