package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// MinDescriptionLen is the minimum trimmed description length accepted on write.
const MinDescriptionLen = 3

// MaxFutureDate bounds how far ahead a transaction may be dated.
const MaxFutureDate = 365 * 24 * time.Hour

type (
	TransactionType string

	// Transaction is a single ledger record owned by one identity.
	// The ID is assigned by the remote store on insert and is immutable.
	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Description string
		Category    string
		Type        TransactionType
		Date        time.Time
		Client      string // optional; dangling references are tolerated
	}

	// Category classifies transactions of one type. Color is an opaque
	// display hint for the presentation layer.
	Category struct {
		ID    string
		Name  string
		Type  TransactionType
		Color string
	}

	Client struct {
		ID   string
		Name string
	}
)

// Valid reports whether t is one of the two known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (t TransactionType) String() string {
	return string(t)
}

// Validate checks the write-time invariants of a transaction. The ID is
// deliberately not checked: drafts have none, stored records always do.
func (tx Transaction) Validate() error {
	if !tx.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(tx.Description)) < MinDescriptionLen {
		return ErrShortDescription
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if !tx.Type.Valid() {
		return ErrInvalidType
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	if tx.Date.After(time.Now().Add(MaxFutureDate)) {
		return ErrInvalidDate
	}
	return nil
}

// Equal reports whether the mutable fields of two transactions match.
// Callers use this to skip remote updates that would change nothing.
func (tx Transaction) Equal(other Transaction) bool {
	return tx.Amount.Equal(other.Amount) &&
		tx.Description == other.Description &&
		tx.Category == other.Category &&
		tx.Type == other.Type &&
		tx.Date.Equal(other.Date) &&
		tx.Client == other.Client
}

// Validate checks the write-time invariants of a category.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// Validate checks the write-time invariants of a client.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
