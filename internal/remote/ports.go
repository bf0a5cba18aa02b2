// Package remote defines the boundary to the hosted persistence service:
// an identity-scoped CRUD store for transactions plus a connectivity probe.
// Adapters live in the subpackages; the ledger store only ever sees these
// interfaces. Row-level isolation is the collaborator's job; every call
// carries the owner id, nothing more.
package remote

import (
	"context"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
)

type (
	// Store is the scoped CRUD surface over the hosted backend.
	Store interface {
		// List returns all transactions owned by ownerID, date descending.
		List(ctx context.Context, ownerID string) ([]core.Transaction, error)

		// Insert persists a draft and returns the stored record with its
		// assigned ID.
		Insert(ctx context.Context, ownerID string, tx core.Transaction) (core.Transaction, error)

		// Update replaces the mutable fields of the record identified by
		// tx.ID, scoped to ownerID. The ID itself is immutable.
		Update(ctx context.Context, ownerID string, tx core.Transaction) error

		// Delete removes the record identified by id, scoped to ownerID.
		Delete(ctx context.Context, ownerID, id string) error
	}

	// Prober answers whether the hosted backend is reachable. Callers bound
	// the probe with a context deadline; it must never hang past it.
	Prober interface {
		Probe(ctx context.Context) error
	}

	// ProfileReader looks up the premium entitlement flag for an identity.
	// A missing profile row is reported as (false, nil), not an error.
	ProfileReader interface {
		Premium(ctx context.Context, ownerID string) (bool, error)
	}
)
