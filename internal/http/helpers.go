package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const dateLayout = "2006-01-02"

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, status, body)
}

// writeDomainError maps domain and remote errors onto HTTP status codes.
// ErrLimitReached gets its own code so clients can render an upgrade
// prompt instead of a generic failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, core.ErrLimitReached):
		writeError(w, http.StatusForbidden, "limit_reached", err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, core.ErrDuplicateCategory):
		writeError(w, http.StatusConflict, "duplicate_category", err.Error())
	case errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrShortDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyName):
		writeError(w, http.StatusUnprocessableEntity, "invalid_input", err.Error())
	default:
		switch remote.KindOf(err) {
		case remote.KindNetwork:
			writeError(w, http.StatusServiceUnavailable, "remote_unavailable", "remote store unreachable")
		case remote.KindPermission:
			writeError(w, http.StatusBadGateway, "remote_denied", "remote store denied access")
		default:
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// transactionPayload is the wire shape of a transaction. Amounts travel
// as strings to keep decimal precision out of float64 hands.
type transactionPayload struct {
	ID          string `json:"id,omitempty"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Client      string `json:"client,omitempty"`
}

func (p transactionPayload) toDomain() (core.Transaction, error) {
	amount, err := core.ParseAmount(p.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	return core.Transaction{
		ID:          p.ID,
		Amount:      amount,
		Description: p.Description,
		Category:    p.Category,
		Type:        core.TransactionType(p.Type),
		Date:        date,
		Client:      p.Client,
	}, nil
}

func toPayload(tx core.Transaction) transactionPayload {
	return transactionPayload{
		ID:          tx.ID,
		Amount:      tx.Amount.String(),
		Description: tx.Description,
		Category:    tx.Category,
		Type:        tx.Type.String(),
		Date:        tx.Date.Format(dateLayout),
		Client:      tx.Client,
	}
}

// parseRollupType reads the ?type= query parameter, defaulting to expense.
func parseRollupType(r *http.Request) (core.TransactionType, error) {
	v := r.URL.Query().Get("type")
	if v == "" {
		return core.Expense, nil
	}
	t := core.TransactionType(v)
	if !t.Valid() {
		return "", core.ErrInvalidType
	}
	return t, nil
}
