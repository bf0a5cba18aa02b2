// Package identity owns the authenticated identity and the connectivity
// mode. The session is an injected object with an explicit lifecycle, not
// ambient global state: the app facade constructs one and hands it to the
// stores that need it.
package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

const (
	// ModeChecking is the initial state. It must resolve to online or
	// offline within one bounded probe; it never persists.
	ModeChecking Mode = "checking"
	ModeOnline   Mode = "online"
	ModeOffline  Mode = "offline"
)

// DefaultProbeTimeout bounds the connectivity probe when the caller does
// not supply its own.
const DefaultProbeTimeout = 5 * time.Second

type (
	Mode string

	// Identity is the authenticated (or synthetic demo) principal.
	Identity struct {
		ID    string
		Email string
		Demo  bool
	}

	Session struct {
		mu       sync.Mutex
		mode     Mode
		identity *Identity
		logger   *applog.Logger
	}
)

func (m Mode) String() string {
	return string(m)
}

func NewSession(logger *applog.Logger) *Session {
	return &Session{
		mode:   ModeChecking,
		logger: logger.WithComponent(applog.ComponentIdentity),
	}
}

// Probe resolves the initial checking state against the remote backend.
// The probe is bounded by timeout and can never leave the session in
// checking: any failure, including a deadline, lands in offline.
func (s *Session) Probe(ctx context.Context, prober remote.Prober, timeout time.Duration) Mode {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mode := ModeOnline
	if err := prober.Probe(probeCtx); err != nil {
		s.logger.WarnContext(ctx, "Connectivity probe failed, entering offline mode",
			applog.FieldError, err)
		mode = ModeOffline
	}

	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Connectivity mode resolved", applog.FieldMode, mode.String())
	return mode
}

// Mode returns the current connectivity mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// SignIn installs a real authenticated identity and moves the session
// online. Any previous identity (demo included) is replaced.
func (s *Session) SignIn(id Identity) {
	id.Demo = false
	s.mu.Lock()
	s.identity = &id
	s.mode = ModeOnline
	s.mu.Unlock()
	s.logger.Info("Signed in", applog.FieldOwnerID, id.ID, applog.FieldMode, ModeOnline.String())
}

// EnterDemo creates a synthetic, non-persisted identity and moves the
// session offline. Demo identities are never shared with the remote store.
func (s *Session) EnterDemo() Identity {
	id := Identity{ID: "demo-" + uuid.NewString(), Demo: true}
	s.mu.Lock()
	s.identity = &id
	s.mode = ModeOffline
	s.mu.Unlock()
	s.logger.Info("Entered demo mode", applog.FieldOwnerID, id.ID, applog.FieldMode, ModeOffline.String())
	return id
}

// SignOut clears the identity. The connectivity mode is left as-is.
func (s *Session) SignOut() {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
	s.logger.Info("Signed out")
}
