// Package ledger maintains the authoritative in-memory view of one
// identity's transactions, synchronized with the remote store.
//
// Mutations follow a strict confirm-then-apply model: the in-memory
// collection changes only after the remote call succeeds, so the local view
// never contains a record the remote store does not. There is no optimistic
// insert and no rollback path. On any remote failure the collection is left
// untouched and the error is propagated verbatim; retry policy belongs to
// the caller.
//
// Overlapping mutations are each independently consistent: a call applies
// only its own delta, never a full reload, so a caller issuing concurrent
// mutations may observe a transient view missing a sibling's result until
// the next Load.
package ledger

import (
	"context"
	"sync"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/entitlement"
	"github.com/hikmagitz/hkmcash-sub000/internal/identity"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

type (
	// Gate is consulted with the live count before any mutation that would
	// grow the collection.
	Gate interface {
		Check(ctx context.Context, ownerID string, count int) error
		Premium(ctx context.Context, ownerID string) (bool, error)
	}

	// CategoryResolver answers whether a category name exists for a
	// transaction type. Backed by the taxonomy store; read-only here.
	CategoryResolver interface {
		Resolve(name string, t core.TransactionType) (core.Category, bool)
	}
)

type Store struct {
	remote   remote.Store
	gate     Gate
	resolver CategoryResolver
	logger   *applog.Logger

	owner    identity.Identity
	hasOwner bool

	mu      sync.Mutex
	txs     []core.Transaction
	summary core.Summary
}

// NewStore builds a ledger store for the given identity. A nil owner yields
// an inert store: empty collection, no fetches, every mutation rejected
// with ErrUnauthenticated.
func NewStore(r remote.Store, gate Gate, resolver CategoryResolver, owner *identity.Identity, logger *applog.Logger) *Store {
	s := &Store{
		remote:   r,
		gate:     gate,
		resolver: resolver,
		logger:   logger.WithComponent(applog.ComponentLedger),
	}
	if owner != nil {
		s.owner = *owner
		s.hasOwner = true
	}
	return s
}

// Load fetches the owner's entire collection, date descending. No
// pagination; expected volumes are hundreds to low thousands of records.
// Without an identity the store stays empty and no fetch is attempted.
func (s *Store) Load(ctx context.Context) error {
	if !s.hasOwner {
		return nil
	}
	txs, err := s.remote.List(ctx, s.owner.ID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.txs = txs
	s.summary = core.Summarize(s.txs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldOwnerID, s.owner.ID,
		applog.FieldCount, len(txs))
	return nil
}

// Add validates the draft, consults the entitlement gate with the count at
// the moment of the call, and only then writes remotely. The stored record
// (with its remote-assigned ID) is prepended; the collection is not
// re-sorted, so past-dated inserts drift out of order until the next Load.
// That relaxation is accepted, not a correctness requirement.
func (s *Store) Add(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	if !s.hasOwner {
		return core.Transaction{}, core.ErrUnauthenticated
	}
	if err := draft.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, ok := s.resolver.Resolve(draft.Category, draft.Type); !ok {
		return core.Transaction{}, core.ErrInvalidCategory
	}

	s.mu.Lock()
	count := len(s.txs)
	s.mu.Unlock()

	if err := s.gate.Check(ctx, s.owner.ID, count); err != nil {
		return core.Transaction{}, err
	}

	stored, err := s.remote.Insert(ctx, s.owner.ID, draft)
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	s.txs = append([]core.Transaction{stored}, s.txs...)
	s.summary = core.Summarize(s.txs)
	total := len(s.txs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		applog.FieldOwnerID, s.owner.ID,
		applog.FieldTxID, stored.ID,
		applog.FieldTxType, stored.Type.String(),
		applog.FieldCategory, stored.Category,
		applog.FieldAmount, stored.Amount.String(),
		applog.FieldCount, total)
	return stored, nil
}

// Update replaces a transaction wholesale with the caller-supplied record,
// so the local view matches caller intent rather than a server-echoed
// partial. An update identical in all mutable fields to the stored record
// skips the remote call entirely.
func (s *Store) Update(ctx context.Context, tx core.Transaction) error {
	if !s.hasOwner {
		return core.ErrUnauthenticated
	}

	s.mu.Lock()
	idx := s.indexOf(tx.ID)
	var existing core.Transaction
	if idx >= 0 {
		existing = s.txs[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		return core.ErrNotFound
	}
	if existing.Equal(tx) {
		// No field differs: skip the wasted remote call, and avoid
		// resetting externally-owned flags on richer record types.
		return nil
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if _, ok := s.resolver.Resolve(tx.Category, tx.Type); !ok {
		return core.ErrInvalidCategory
	}

	if err := s.remote.Update(ctx, s.owner.ID, tx); err != nil {
		return err
	}

	s.mu.Lock()
	// Re-locate: a concurrent delete may have shifted the slice.
	if idx = s.indexOf(tx.ID); idx >= 0 {
		s.txs[idx] = tx
		s.summary = core.Summarize(s.txs)
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction updated",
		applog.FieldOwnerID, s.owner.ID,
		applog.FieldTxID, tx.ID)
	return nil
}

// Delete removes a transaction, scoped remotely by both id and owner id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.hasOwner {
		return core.ErrUnauthenticated
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	s.mu.Unlock()
	if idx < 0 {
		return core.ErrNotFound
	}

	if err := s.remote.Delete(ctx, s.owner.ID, id); err != nil {
		return err
	}

	s.mu.Lock()
	if idx = s.indexOf(id); idx >= 0 {
		s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
		s.summary = core.Summarize(s.txs)
	}
	total := len(s.txs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction deleted",
		applog.FieldOwnerID, s.owner.ID,
		applog.FieldTxID, id,
		applog.FieldCount, total)
	return nil
}

// Transactions returns a copy of the current collection snapshot.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}

// Summary returns the totals consistent with the current snapshot.
func (s *Store) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Count returns the current collection size.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

// CategoryTotals derives the per-category rollup for one type from the
// current snapshot.
func (s *Store) CategoryTotals(t core.TransactionType) []core.KeyTotal {
	return core.CategoryTotals(s.Transactions(), t)
}

// MonthlyTotals derives the per-month rollup for one type from the current
// snapshot.
func (s *Store) MonthlyTotals(t core.TransactionType) []core.KeyTotal {
	return core.MonthlyTotals(s.Transactions(), t)
}

// HasReachedLimit reads the premium flag fresh and applies the free-tier
// rule to the current count. Demo ledgers have no ceiling and always
// report false, whatever the gate says.
func (s *Store) HasReachedLimit(ctx context.Context) (bool, error) {
	if !s.hasOwner || s.owner.Demo {
		return false, nil
	}
	premium, err := s.gate.Premium(ctx, s.owner.ID)
	if err != nil {
		return false, err
	}
	return entitlement.HasReachedLimit(premium, s.Count()), nil
}

// Owner returns the identity this store is scoped to.
func (s *Store) Owner() (identity.Identity, bool) {
	return s.owner, s.hasOwner
}

// caller must hold s.mu
func (s *Store) indexOf(id string) int {
	for i, tx := range s.txs {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
