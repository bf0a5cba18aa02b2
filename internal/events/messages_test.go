package events

import (
	"testing"
	"time"
)

func TestTransactionEventJSON(t *testing.T) {
	ev := NewTransactionEvent(OpAdd, "tx-1", "owner-1")
	if ev.Timestamp.IsZero() {
		t.Fatal("event should be timestamped")
	}

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := TransactionEventFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Op != OpAdd || got.TransactionID != "tx-1" || got.OwnerID != "owner-1" {
		t.Fatalf("round trip = %+v", got)
	}
	if got.Timestamp.Sub(ev.Timestamp) > time.Second {
		t.Fatalf("timestamp drifted: %v vs %v", got.Timestamp, ev.Timestamp)
	}
}

func TestTransactionEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
