package http

import (
	"net/http"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs := s.app.Ledger().Transactions()
	payloads := make([]transactionPayload, 0, len(txs))
	for _, tx := range txs {
		payloads = append(payloads, toPayload(tx))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": payloads,
		"count":        len(payloads),
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	draft, err := p.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	draft.ID = ""

	stored, err := s.app.AddTransaction(r.Context(), draft)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create transaction",
			applog.FieldError, err,
			applog.FieldTxType, draft.Type.String(),
			applog.FieldCategory, draft.Category)
		writeDomainError(w, err)
		return
	}
	s.rollupCache.Flush()

	s.logger.InfoContext(r.Context(), "Transaction created",
		applog.FieldTxID, stored.ID,
		applog.FieldTxType, stored.Type.String(),
		applog.FieldAmount, stored.Amount.String())
	writeJSON(w, http.StatusCreated, toPayload(stored))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var p transactionPayload
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed request body")
		return
	}
	tx, err := p.toDomain()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	tx.ID = r.PathValue("id")

	if err := s.app.UpdateTransaction(r.Context(), tx); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to update transaction",
			applog.FieldError, err,
			applog.FieldTxID, tx.ID)
		writeDomainError(w, err)
		return
	}
	s.rollupCache.Flush()
	writeJSON(w, http.StatusOK, toPayload(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.app.DeleteTransaction(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction",
			applog.FieldError, err,
			applog.FieldTxID, id)
		writeDomainError(w, err)
		return
	}
	s.rollupCache.Flush()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Ledger().Summary())
}

func (s *Server) handleCategoryRollup(w http.ResponseWriter, r *http.Request) {
	s.serveRollup(w, r, "categories")
}

func (s *Server) handleMonthlyRollup(w http.ResponseWriter, r *http.Request) {
	s.serveRollup(w, r, "months")
}

func (s *Server) serveRollup(w http.ResponseWriter, r *http.Request, kind string) {
	t, err := parseRollupType(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	store := s.app.Ledger()
	key := kind + "|" + t.String()
	if owner, ok := store.Owner(); ok {
		key = owner.ID + "|" + key
	}

	if totals, ok := s.rollupCache.Get(key); ok {
		writeJSON(w, http.StatusOK, map[string]any{"type": t.String(), "totals": totals})
		return
	}

	var totals []core.KeyTotal
	if kind == "categories" {
		totals = store.CategoryTotals(t)
	} else {
		totals = store.MonthlyTotals(t)
	}
	s.rollupCache.Set(key, totals)
	writeJSON(w, http.StatusOK, map[string]any{"type": t.String(), "totals": totals})
}
