package core

import "errors"

// Domain errors. The HTTP layer maps these onto status codes; the
// presentation layer distinguishes ErrLimitReached (upgrade prompt)
// from everything else (generic failure messaging).
var (
	// ErrUnauthenticated means an operation was attempted with no identity
	// present. Fatal to the calling operation, never retried automatically.
	ErrUnauthenticated = errors.New("no authenticated identity")

	// ErrLimitReached is the entitlement gate rejection for non-premium
	// identities at the free-tier ceiling. Recoverable via an upgrade.
	ErrLimitReached = errors.New("free transaction limit reached")

	// ErrInvalidCategory means a transaction references a category that does
	// not exist for its type. Caller-correctable, never silently defaulted.
	ErrInvalidCategory = errors.New("category does not exist for transaction type")

	// ErrNotFound means an update or delete target is not held locally.
	ErrNotFound = errors.New("transaction not found")

	// ErrDuplicateCategory enforces (name, type) uniqueness at category add.
	ErrDuplicateCategory = errors.New("category already exists for this type")
)

// Validation errors.
var (
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrShortDescription = errors.New("description too short")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
)
