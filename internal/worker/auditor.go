// Package worker holds the background consumer that turns the mutation
// event feed into an audit trail.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hikmagitz/hkmcash-sub000/internal/events"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

// Auditor consumes transaction events and writes one structured audit
// line per mutation. It also keeps running counters so the periodic
// stats line shows feed activity at a glance.
type Auditor struct {
	logger *applog.Logger

	mu       sync.Mutex
	byOp     map[string]int64
	byOwner  map[string]int64
	lastSeen time.Time
}

func NewAuditor(logger *applog.Logger) *Auditor {
	return &Auditor{
		logger:  logger.WithComponent(applog.ComponentWorker),
		byOp:    make(map[string]int64),
		byOwner: make(map[string]int64),
	}
}

// Handle records a single event. Unknown operations are logged and
// skipped, never returned as an error: the consumer requeues handler
// failures, and a malformed event would cycle forever.
func (a *Auditor) Handle(ev *events.TransactionEvent) error {
	switch ev.Op {
	case events.OpAdd, events.OpUpdate, events.OpDelete:
	default:
		a.logger.Warn("Skipping event with unknown operation",
			applog.FieldOperation, ev.Op,
			applog.FieldTxID, ev.TransactionID)
		return nil
	}

	a.mu.Lock()
	a.byOp[ev.Op]++
	a.byOwner[ev.OwnerID]++
	a.lastSeen = time.Now()
	a.mu.Unlock()

	a.logger.Info("Ledger mutation",
		applog.FieldOperation, ev.Op,
		applog.FieldTxID, ev.TransactionID,
		applog.FieldOwnerID, ev.OwnerID,
		"event_timestamp", ev.Timestamp)
	return nil
}

// Stats returns a snapshot of the running counters.
func (a *Auditor) Stats() (byOp map[string]int64, owners int, lastSeen time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	byOp = make(map[string]int64, len(a.byOp))
	for op, n := range a.byOp {
		byOp[op] = n
	}
	return byOp, len(a.byOwner), a.lastSeen
}

// LogStats emits the periodic activity line. Quiet feeds log nothing.
func (a *Auditor) LogStats(ctx context.Context) {
	byOp, owners, lastSeen := a.Stats()
	if lastSeen.IsZero() {
		return
	}
	a.logger.InfoContext(ctx, "Event feed activity",
		"adds", byOp[events.OpAdd],
		"updates", byOp[events.OpUpdate],
		"deletes", byOp[events.OpDelete],
		"distinct_owners", owners,
		"last_event", lastSeen.Format(time.RFC3339))
}
