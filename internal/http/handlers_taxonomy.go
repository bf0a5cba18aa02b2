package http

import (
	"net/http"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

type categoryPayload struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

type clientPayload struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats := s.app.Taxonomy().Categories()
	payloads := make([]categoryPayload, 0, len(cats))
	for _, c := range cats {
		payloads = append(payloads, categoryPayload{ID: c.ID, Name: c.Name, Type: c.Type.String(), Color: c.Color})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": payloads})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var p categoryPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	created, err := s.app.Taxonomy().AddCategory(r.Context(), core.Category{
		Name:  p.Name,
		Type:  core.TransactionType(p.Type),
		Color: p.Color,
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create category",
			applog.FieldError, err,
			applog.FieldCategory, p.Name)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryPayload{ID: created.ID, Name: created.Name, Type: created.Type.String(), Color: created.Color})
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var p struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	id := r.PathValue("id")
	if err := s.app.Taxonomy().RenameCategory(r.Context(), id, p.Name); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to rename category",
			applog.FieldError, err,
			applog.FieldCategory, id)
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Taxonomy().DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients := s.app.Taxonomy().Clients()
	payloads := make([]clientPayload, 0, len(clients))
	for _, c := range clients {
		payloads = append(payloads, clientPayload{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": payloads})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var p clientPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}

	created, err := s.app.Taxonomy().AddClient(r.Context(), core.Client{Name: p.Name})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clientPayload{ID: created.ID, Name: created.Name})
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Taxonomy().DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
