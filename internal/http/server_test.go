package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hikmagitz/hkmcash-sub000/internal/app"
	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/identity"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote/memory"
	"github.com/hikmagitz/hkmcash-sub000/internal/taxonomy"
)

type memRepo struct {
	categories []core.Category
	clients    []core.Client
}

func (m *memRepo) ListCategories(context.Context) ([]core.Category, error) {
	return append([]core.Category(nil), m.categories...), nil
}
func (m *memRepo) InsertCategory(_ context.Context, c core.Category) error {
	m.categories = append(m.categories, c)
	return nil
}
func (m *memRepo) RenameCategory(_ context.Context, id, name string) error {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories[i].Name = name
			return nil
		}
	}
	return core.ErrNotFound
}
func (m *memRepo) DeleteCategory(context.Context, string) error { return nil }
func (m *memRepo) ListClients(context.Context) ([]core.Client, error) {
	return append([]core.Client(nil), m.clients...), nil
}
func (m *memRepo) InsertClient(_ context.Context, c core.Client) error {
	m.clients = append(m.clients, c)
	return nil
}
func (m *memRepo) DeleteClient(context.Context, string) error { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := applog.New(applog.DefaultConfig())

	tax := taxonomy.NewStore(&memRepo{categories: []core.Category{
		{ID: "c1", Name: "Sales", Type: core.Income},
		{ID: "c2", Name: "Rent", Type: core.Expense},
	}}, logger)
	if err := tax.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	a := app.New(identity.NewSession(logger), tax, memory.New(), memory.NewProfiles(), nil, logger)
	s := NewServer(":0", a, logger)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func doJSON(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func signIn(t *testing.T, s *Server, userID string) {
	t.Helper()
	rec := doJSON(s, http.MethodPost, "/session/signin", map[string]string{"user_id": userID})
	if rec.Code != http.StatusOK {
		t.Fatalf("sign-in status = %d: %s", rec.Code, rec.Body.String())
	}
}

func txBody(amount string) map[string]string {
	return map[string]string{
		"amount":      amount,
		"description": "office rent",
		"category":    "Rent",
		"type":        "expense",
		"date":        "2026-08-01",
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doJSON(s, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
	}
}

func TestCreateRequiresIdentity(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodPost, "/transactions", txBody("100"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")

	rec := doJSON(s, http.MethodPost, "/transactions", txBody("100.50"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created transactionPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("created transaction has no ID")
	}

	body := txBody("200")
	rec = doJSON(s, http.MethodPut, "/transactions/"+created.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(s, http.MethodGet, "/transactions", nil)
	var listed struct {
		Transactions []transactionPayload `json:"transactions"`
		Count        int                  `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.Count != 1 || listed.Transactions[0].Amount != "200" {
		t.Fatalf("listed = %+v", listed)
	}

	rec = doJSON(s, http.MethodDelete, "/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(s, http.MethodDelete, "/transactions/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestCreateRejectsUnknownCategory(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")

	body := txBody("10")
	body["category"] = "Gambling"
	rec := doJSON(s, http.MethodPost, "/transactions", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCreateRejectsMalformedAmount(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")

	body := txBody("-5")
	rec := doJSON(s, http.MethodPost, "/transactions", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestLimitReachedMapsToForbidden(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")

	for i := 0; i < 50; i++ {
		if rec := doJSON(s, http.MethodPost, "/transactions", txBody("1")); rec.Code != http.StatusCreated {
			t.Fatalf("add %d status = %d", i+1, rec.Code)
		}
	}
	rec := doJSON(s, http.MethodPost, "/transactions", txBody("1"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "limit_reached" {
		t.Fatalf("error code = %q", body.Error.Code)
	}
}

func TestDemoFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/session/demo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("demo status = %d", rec.Code)
	}

	rec = doJSON(s, http.MethodGet, "/status", nil)
	var st struct {
		Mode     string `json:"mode"`
		SignedIn bool   `json:"signed_in"`
		Demo     bool   `json:"demo"`
		Count    int    `json:"transaction_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Mode != "offline" || !st.SignedIn || !st.Demo || st.Count == 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestRollupReflectsMutations(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")

	if rec := doJSON(s, http.MethodPost, "/transactions", txBody("10")); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec := doJSON(s, http.MethodGet, "/rollups/categories?type=expense", nil)
	var first struct {
		Totals []core.KeyTotal `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	if len(first.Totals) != 1 || first.Totals[0].Key != "Rent" {
		t.Fatalf("totals = %+v", first.Totals)
	}

	// A mutation must invalidate the cached rollup.
	if rec := doJSON(s, http.MethodPost, "/transactions", txBody("5")); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	rec = doJSON(s, http.MethodGet, "/rollups/categories?type=expense", nil)
	var second struct {
		Totals []core.KeyTotal `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.Totals[0].Total.String() != "15" {
		t.Fatalf("total = %s, want 15", second.Totals[0].Total)
	}

	rec = doJSON(s, http.MethodGet, "/rollups/categories?type=bogus", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bogus type status = %d", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/categories", map[string]string{"name": "Consulting", "type": "income"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created categoryPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	// Duplicate (name, type) is rejected.
	rec = doJSON(s, http.MethodPost, "/categories", map[string]string{"name": "Consulting", "type": "income"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}

	rec = doJSON(s, http.MethodPut, "/categories/"+created.ID, map[string]string{"name": "Advisory"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rename status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(s, http.MethodGet, "/categories", nil)
	var listed struct {
		Categories []categoryPayload `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range listed.Categories {
		if c.ID == created.ID && c.Name == "Advisory" {
			found = true
		}
	}
	if !found {
		t.Fatalf("renamed category missing from %+v", listed.Categories)
	}
}

func TestRateLimitOnMutations(t *testing.T) {
	s := newTestServer(t)
	var last int
	for i := 0; i < 61; i++ {
		rec := doJSON(s, http.MethodPost, "/session/signout", nil)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d, want 429", last)
	}
}

func TestSignOutClearsLedger(t *testing.T) {
	s := newTestServer(t)
	signIn(t, s, "user-1")
	if rec := doJSON(s, http.MethodPost, "/transactions", txBody("10")); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	if rec := doJSON(s, http.MethodPost, "/session/signout", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("signout status = %d", rec.Code)
	}
	rec := doJSON(s, http.MethodGet, "/transactions", nil)
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}
	if listed.Count != 0 {
		t.Fatalf("count after signout = %d", listed.Count)
	}
}
