// Package app is the application facade: it owns the session lifecycle,
// swaps ledger stores on mode transitions, and is the only mutation
// surface exposed to presentation consumers.
package app

import (
	"context"
	"sync"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/entitlement"
	"github.com/hikmagitz/hkmcash-sub000/internal/events"
	"github.com/hikmagitz/hkmcash-sub000/internal/identity"
	"github.com/hikmagitz/hkmcash-sub000/internal/ledger"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote/memory"
	"github.com/hikmagitz/hkmcash-sub000/internal/taxonomy"
)

// Publisher is the optional mutation event feed.
type Publisher interface {
	Publish(ctx context.Context, ev *events.TransactionEvent) error
}

// Status is the presentation-facing snapshot of entitlement and mode.
type Status struct {
	Mode            string       `json:"mode"`
	SignedIn        bool         `json:"signed_in"`
	Demo            bool         `json:"demo"`
	Premium         bool         `json:"premium"`
	Count           int          `json:"transaction_count"`
	FreeLimit       int          `json:"free_limit"`
	HasReachedLimit bool         `json:"has_reached_limit"`
	Summary         core.Summary `json:"summary"`
}

type App struct {
	session   *identity.Session
	taxonomy  *taxonomy.Store
	remote    remote.Store
	gate      *entitlement.Gate
	publisher Publisher
	logger    *applog.Logger

	mu     sync.Mutex
	ledger *ledger.Store
}

// New wires the facade. The ledger starts inert: no identity, empty
// collection, no fetches, until SignIn or EnterDemo swaps in a real store.
func New(session *identity.Session, tax *taxonomy.Store, remoteStore remote.Store, profiles remote.ProfileReader, pub Publisher, logger *applog.Logger) *App {
	a := &App{
		session:   session,
		taxonomy:  tax,
		remote:    remoteStore,
		gate:      entitlement.NewGate(profiles),
		publisher: pub,
		logger:    logger.WithComponent(applog.ComponentApp),
	}
	a.ledger = ledger.NewStore(remoteStore, a.gate, tax, nil, logger)
	return a
}

// SignIn installs a real identity and swaps in a fresh remote-backed ledger
// store. Whatever store was active before (demo included) is discarded
// wholesale before the load, so demo data can never leak into or merge with
// a real identity's ledger. A failed load leaves an empty, retryable store.
func (a *App) SignIn(ctx context.Context, id identity.Identity) error {
	a.session.SignIn(id)
	id.Demo = false

	store := ledger.NewStore(a.remote, a.gate, a.taxonomy, &id, a.logger)
	a.mu.Lock()
	a.ledger = store
	a.mu.Unlock()

	return store.Load(ctx)
}

// EnterDemo switches to the disconnected mode: a synthetic identity over an
// in-memory fixture-seeded store with no entitlement ceiling.
func (a *App) EnterDemo(ctx context.Context) (identity.Identity, error) {
	id := a.session.EnterDemo()

	store := ledger.NewStore(memory.NewWithFixtures(id.ID), entitlement.AllowAll{}, a.taxonomy, &id, a.logger)
	a.mu.Lock()
	a.ledger = store
	a.mu.Unlock()

	return id, store.Load(ctx)
}

// SignOut clears the identity and swaps in an inert store.
func (a *App) SignOut() {
	a.session.SignOut()
	a.mu.Lock()
	a.ledger = ledger.NewStore(a.remote, a.gate, a.taxonomy, nil, a.logger)
	a.mu.Unlock()
}

// Ledger returns the currently active ledger store.
func (a *App) Ledger() *ledger.Store {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger
}

// Taxonomy returns the taxonomy store.
func (a *App) Taxonomy() *taxonomy.Store {
	return a.taxonomy
}

// Session returns the identity session.
func (a *App) Session() *identity.Session {
	return a.session
}

// AddTransaction delegates to the active ledger store and publishes a
// mutation event on success.
func (a *App) AddTransaction(ctx context.Context, draft core.Transaction) (core.Transaction, error) {
	stored, err := a.Ledger().Add(ctx, draft)
	if err != nil {
		return core.Transaction{}, err
	}
	a.publish(ctx, events.OpAdd, stored.ID)
	return stored, nil
}

// UpdateTransaction delegates to the active ledger store and publishes a
// mutation event on success. No-op updates publish nothing.
func (a *App) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := a.Ledger().Update(ctx, tx); err != nil {
		return err
	}
	a.publish(ctx, events.OpUpdate, tx.ID)
	return nil
}

// DeleteTransaction delegates to the active ledger store and publishes a
// mutation event on success.
func (a *App) DeleteTransaction(ctx context.Context, id string) error {
	if err := a.Ledger().Delete(ctx, id); err != nil {
		return err
	}
	a.publish(ctx, events.OpDelete, id)
	return nil
}

// Status reports mode, entitlement, and summary for the presentation layer.
func (a *App) Status(ctx context.Context) (Status, error) {
	store := a.Ledger()
	st := Status{
		Mode:      a.session.Mode().String(),
		FreeLimit: entitlement.FreeTierLimit,
		Count:     store.Count(),
		Summary:   store.Summary(),
	}

	owner, ok := store.Owner()
	if !ok {
		return st, nil
	}
	st.SignedIn = true
	st.Demo = owner.Demo
	if owner.Demo {
		// Demo mode has no ceiling; the limit flag stays false.
		return st, nil
	}

	// One profile read serves both fields.
	premium, err := a.gate.Premium(ctx, owner.ID)
	if err != nil {
		return st, err
	}
	st.Premium = premium
	st.HasReachedLimit = entitlement.HasReachedLimit(premium, st.Count)
	return st, nil
}

// publish sends a mutation event, best-effort. Demo-mode mutations are not
// published: they describe state that does not exist remotely.
func (a *App) publish(ctx context.Context, op, txID string) {
	if a.publisher == nil {
		return
	}
	owner, ok := a.Ledger().Owner()
	if !ok || owner.Demo {
		return
	}
	if err := a.publisher.Publish(ctx, events.NewTransactionEvent(op, txID, owner.ID)); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish transaction event",
			applog.FieldError, err,
			applog.FieldOperation, op,
			applog.FieldTxID, txID)
	}
}
