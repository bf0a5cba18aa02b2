package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

func TestParseRow(t *testing.T) {
	row := []interface{}{"tx-1", "owner-1", "2026-08-15", "expense", "42.50", "printer ink", "Office", "Acme"}
	tx, owner, ok := parseRow(row)
	if !ok {
		t.Fatal("expected row to parse")
	}
	if owner != "owner-1" {
		t.Fatalf("owner = %s", owner)
	}
	if tx.ID != "tx-1" || tx.Category != "Office" || tx.Client != "Acme" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if tx.Amount.String() != "42.5" {
		t.Fatalf("amount = %s", tx.Amount)
	}
	if tx.Date.Year() != 2026 || int(tx.Date.Month()) != 8 || tx.Date.Day() != 15 {
		t.Fatalf("date = %v", tx.Date)
	}
}

func TestParseRowSkipsBadRows(t *testing.T) {
	cases := [][]interface{}{
		{"ID", "Owner", "Date", "Type", "Amount", "Description", "Category"}, // header
		{"tx-1", "o", "not-a-date", "expense", "1", "desc", "Cat"},
		{"tx-1", "o", "2026-01-01", "expense", "NaN", "desc", "Cat"},
		{"tx-1", "o", "2026-01-01", "transfer", "1", "desc", "Cat"}, // bad type
		{"", "o", "2026-01-01", "expense", "1", "desc", "Cat"},      // no id
		{"too", "short"},
	}
	for i, row := range cases {
		if _, _, ok := parseRow(row); ok {
			t.Fatalf("case %d: expected row to be skipped", i)
		}
	}
}

func TestRowValuesRoundTrip(t *testing.T) {
	row := []interface{}{"tx-9", "owner-2", "2026-02-28", "income", "1200", "retainer fee", "Consulting", ""}
	tx, owner, ok := parseRow(row)
	if !ok {
		t.Fatal("expected row to parse")
	}
	got := rowValues(owner, tx)
	for i, want := range row {
		if got[i] != want {
			t.Fatalf("column %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want remote.Kind
	}{
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, remote.KindPermission},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, remote.KindPermission},
		{"server error", &googleapi.Error{Code: http.StatusBadGateway}, remote.KindNetwork},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, remote.KindNetwork},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, remote.KindUnknown},
		{"plain error", errors.New("boom"), remote.KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classify(tc.err); got != tc.want {
				t.Fatalf("classify = %v, want %v", got, tc.want)
			}
		})
	}
}

// Row deletes resolve the numeric sheet id lazily on a client shared across
// request goroutines. Concurrent resolution must agree on the id and hit the
// metadata endpoint exactly once.
func TestResolveLedgerSheetIDConcurrent(t *testing.T) {
	var fetches atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"sheets":[{"properties":{"sheetId":42,"title":"Ledger"}}]}`)
	}))
	defer ts.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(ts.URL),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	c := &Client{svc: svc, spreadsheetID: "sheet-1", ledgerSheet: "Ledger"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.resolveLedgerSheetID(context.Background())
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			if id != 42 {
				t.Errorf("sheet id = %d, want 42", id)
			}
		}()
	}
	wg.Wait()

	if n := fetches.Load(); n != 1 {
		t.Fatalf("metadata fetched %d times, want 1", n)
	}
}

func TestRetryableOnClassifiedErrors(t *testing.T) {
	netErr := remote.NewError("list", remote.KindNetwork, errors.New("timeout"))
	if !remote.Retryable(netErr) {
		t.Fatal("network errors should be retryable")
	}
	permErr := remote.NewError("list", remote.KindPermission, errors.New("forbidden"))
	if remote.Retryable(permErr) {
		t.Fatal("permission errors must not be retryable")
	}
}
