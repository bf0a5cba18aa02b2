package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          "tx-1",
		Amount:      decimal.NewFromInt(100),
		Description: "office rent",
		Category:    "Rent",
		Type:        Expense,
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTransaction().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"short description", func(tx *Transaction) { tx.Description = "ab" }, ErrShortDescription},
		{"whitespace description", func(tx *Transaction) { tx.Description = "  a  " }, ErrShortDescription},
		{"empty category", func(tx *Transaction) { tx.Category = " " }, ErrEmptyCategory},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
		{"far future date", func(tx *Transaction) { tx.Date = time.Now().Add(2 * 365 * 24 * time.Hour) }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTransaction()
			tc.mutate(&tx)
			if err := tx.Validate(); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTransactionValidateNearFutureDate(t *testing.T) {
	tx := validTransaction()
	tx.Date = time.Now().Add(30 * 24 * time.Hour)
	if err := tx.Validate(); err != nil {
		t.Fatalf("dates inside a year should validate, got %v", err)
	}
}

func TestTransactionEqual(t *testing.T) {
	a := validTransaction()
	b := a
	if !a.Equal(b) {
		t.Fatal("identical transactions should be equal")
	}

	// Equal compares decimal value, not representation.
	b.Amount = decimal.RequireFromString("100.00")
	if !a.Equal(b) {
		t.Fatal("100 and 100.00 should compare equal")
	}

	b = a
	b.Description = "warehouse rent"
	if a.Equal(b) {
		t.Fatal("differing descriptions should not be equal")
	}

	b = a
	b.Client = "acme"
	if a.Equal(b) {
		t.Fatal("differing clients should not be equal")
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{ID: "c1", Name: "Rent", Type: Expense, Color: "#ff0000"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "", Type: Expense}).Validate(); err != ErrEmptyName {
		t.Fatal("expected ErrEmptyName")
	}
	if err := (Category{Name: "Rent", Type: "other"}).Validate(); err != ErrInvalidType {
		t.Fatal("expected ErrInvalidType")
	}
}

func TestClientValidate(t *testing.T) {
	if err := (Client{ID: "cl1", Name: "Acme"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Client{Name: "  "}).Validate(); err != ErrEmptyName {
		t.Fatal("expected ErrEmptyName")
	}
}
