package http

import (
	"net/http"
	"strings"

	"github.com/hikmagitz/hkmcash-sub000/internal/identity"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.app.Status(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to build status", applog.FieldError, err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var p struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	if strings.TrimSpace(p.UserID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "user_id is required")
		return
	}

	id := identity.Identity{ID: p.UserID, Email: p.Email}
	if err := s.app.SignIn(r.Context(), id); err != nil {
		// Identity is installed; only the initial load failed. Report it
		// so the client can retry, rather than pretending the ledger is
		// empty.
		s.logger.ErrorContext(r.Context(), "Initial ledger load failed",
			applog.FieldError, err,
			applog.FieldOwnerID, id.ID)
		writeDomainError(w, err)
		return
	}
	s.rollupCache.Flush()

	s.logger.InfoContext(r.Context(), "Signed in",
		applog.FieldOwnerID, id.ID,
		applog.FieldCount, s.app.Ledger().Count())
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    s.app.Session().Mode().String(),
		"user_id": id.ID,
	})
}

func (s *Server) handleEnterDemo(w http.ResponseWriter, r *http.Request) {
	id, err := s.app.EnterDemo(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.rollupCache.Flush()

	s.logger.InfoContext(r.Context(), "Entered demo mode", applog.FieldOwnerID, id.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    s.app.Session().Mode().String(),
		"user_id": id.ID,
		"demo":    true,
	})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	s.app.SignOut()
	s.rollupCache.Flush()
	w.WriteHeader(http.StatusNoContent)
}
