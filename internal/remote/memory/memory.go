// Package memory is the demo-mode substitute for the hosted backend: an
// in-memory transaction store with synthetic fixture data and no real
// persistence. It backs the disconnected mode and tests; nothing written
// here survives the process.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
)

type Store struct {
	mu    sync.Mutex
	items map[string][]core.Transaction // keyed by owner id
}

func New() *Store {
	return &Store{items: make(map[string][]core.Transaction)}
}

// NewWithFixtures returns a store pre-populated with a synthetic ledger for
// the given owner, so the demo mode has something to show.
func NewWithFixtures(ownerID string) *Store {
	s := New()
	s.items[ownerID] = fixtures()
	return s
}

// Probe implements remote.Prober. The in-memory backend is always
// reachable.
func (s *Store) Probe(_ context.Context) error {
	return nil
}

// List implements remote.Store.
func (s *Store) List(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.items[ownerID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// Insert implements remote.Store. IDs are assigned here, mirroring the
// hosted backend's behavior.
func (s *Store) Insert(_ context.Context, ownerID string, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = uuid.NewString()
	s.items[ownerID] = append(s.items[ownerID], tx)
	return tx, nil
}

// Update implements remote.Store.
func (s *Store) Update(_ context.Context, ownerID string, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.items[ownerID] {
		if existing.ID == tx.ID {
			s.items[ownerID][i] = tx
			return nil
		}
	}
	return core.ErrNotFound
}

// Delete implements remote.Store.
func (s *Store) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs := s.items[ownerID]
	for i, existing := range txs {
		if existing.ID == id {
			s.items[ownerID] = append(txs[:i], txs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// Count reports how many transactions the owner holds. Test helper.
func (s *Store) Count(ownerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items[ownerID])
}

func fixtures() []core.Transaction {
	now := time.Now()
	day := func(offset int) time.Time {
		return now.AddDate(0, 0, -offset).Truncate(24 * time.Hour)
	}
	amount := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}
	return []core.Transaction{
		{ID: uuid.NewString(), Amount: amount("2400"), Description: "Website redesign", Category: "Sales", Type: core.Income, Date: day(2), Client: "Acme Corp"},
		{ID: uuid.NewString(), Amount: amount("850.50"), Description: "Consulting retainer", Category: "Consulting", Type: core.Income, Date: day(6), Client: "Globex"},
		{ID: uuid.NewString(), Amount: amount("129.99"), Description: "Accounting software", Category: "Software", Type: core.Expense, Date: day(8)},
		{ID: uuid.NewString(), Amount: amount("640"), Description: "Office rent", Category: "Rent", Type: core.Expense, Date: day(12)},
		{ID: uuid.NewString(), Amount: amount("75.20"), Description: "Team lunch", Category: "Meals", Type: core.Expense, Date: day(15)},
		{ID: uuid.NewString(), Amount: amount("1200"), Description: "Logo package", Category: "Sales", Type: core.Income, Date: day(21), Client: "Initech"},
	}
}
