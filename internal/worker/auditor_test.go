package worker

import (
	"testing"

	"github.com/hikmagitz/hkmcash-sub000/internal/events"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

func TestHandleCounts(t *testing.T) {
	a := NewAuditor(applog.New(applog.DefaultConfig()))

	evs := []*events.TransactionEvent{
		events.NewTransactionEvent(events.OpAdd, "t1", "u1"),
		events.NewTransactionEvent(events.OpAdd, "t2", "u2"),
		events.NewTransactionEvent(events.OpUpdate, "t1", "u1"),
		events.NewTransactionEvent(events.OpDelete, "t2", "u2"),
	}
	for _, ev := range evs {
		if err := a.Handle(ev); err != nil {
			t.Fatalf("handle %s: %v", ev.Op, err)
		}
	}

	byOp, owners, lastSeen := a.Stats()
	if byOp[events.OpAdd] != 2 || byOp[events.OpUpdate] != 1 || byOp[events.OpDelete] != 1 {
		t.Fatalf("byOp = %v", byOp)
	}
	if owners != 2 {
		t.Fatalf("owners = %d", owners)
	}
	if lastSeen.IsZero() {
		t.Fatal("lastSeen not set")
	}
}

func TestHandleSkipsUnknownOp(t *testing.T) {
	a := NewAuditor(applog.New(applog.DefaultConfig()))
	if err := a.Handle(events.NewTransactionEvent("truncate", "t1", "u1")); err != nil {
		t.Fatalf("unknown operation must be skipped, not requeued: %v", err)
	}
	if byOp, _, _ := a.Stats(); len(byOp) != 0 {
		t.Fatalf("unknown op was counted: %v", byOp)
	}
}
