package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a remote failure so callers can pick a retry policy.
// Network failures are safe to retry; permission failures are not. The
// core itself never retries either kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindPermission
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindPermission:
		return "permission"
	default:
		return "unknown"
	}
}

// Error wraps a failure from the persistence collaborator, preserving the
// underlying error verbatim.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified remote error.
func NewError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap classifies err by inspection and wraps it. Adapters that know more
// about their transport (HTTP status codes etc.) should classify themselves
// and call NewError instead.
func Wrap(op string, err error) *Error {
	return NewError(op, classify(err), err)
}

func classify(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindUnknown
}

// Retryable reports whether err is a remote failure a caller may safely
// retry. Only network-transient failures qualify.
func Retryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindNetwork
	}
	return false
}

// KindOf extracts the failure kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
