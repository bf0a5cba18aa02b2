// Package sheets adapts a Google Spreadsheet into the remote ledger store.
// One sheet holds transaction rows scoped by owner id, a second holds the
// premium profile flags. The adapter classifies transport failures so the
// core can tell network-transient errors from permission errors.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	"github.com/hikmagitz/hkmcash-sub000/internal/remote"
)

const dateLayout = "2006-01-02"

// Ledger row layout: ID | Owner | Date | Type | Amount | Description | Category | Client
const ledgerColumns = "A:H"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	profilesSheet string

	// numeric sheet id of the ledger sheet, resolved lazily for row deletes.
	// mu guards both fields: the client is shared across request goroutines.
	mu            sync.Mutex
	ledgerSheetID int64
	sheetIDKnown  bool
}

// Ensure interface conformance
var (
	_ remote.Store         = (*Client)(nil)
	_ remote.Prober        = (*Client)(nil)
	_ remote.ProfileReader = (*Client)(nil)
)

// NewFromEnv creates a Sheets-backed remote store using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional sheet names: GOOGLE_LEDGER_SHEET (default "Ledger"),
// GOOGLE_PROFILES_SHEET (default "Profiles").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	ledgerSheet := strings.TrimSpace(os.Getenv("GOOGLE_LEDGER_SHEET"))
	if ledgerSheet == "" {
		ledgerSheet = "Ledger"
	}
	profilesSheet := strings.TrimSpace(os.Getenv("GOOGLE_PROFILES_SHEET"))
	if profilesSheet == "" {
		profilesSheet = "Profiles"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		profilesSheet: profilesSheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Probe implements remote.Prober. The caller bounds it with a deadline.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return remote.NewError("probe", classify(err), err)
	}
	return nil
}

// List implements remote.Store. The full owner-scoped collection is read in
// one call and sorted date descending; there is no pagination.
func (c *Client) List(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rng := fmt.Sprintf("%s!%s", c.ledgerSheet, ledgerColumns)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, remote.NewError("list", classify(err), err)
	}

	var out []core.Transaction
	for _, row := range resp.Values {
		tx, owner, ok := parseRow(row)
		if !ok || owner != ownerID {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

// Insert implements remote.Store. The ID is assigned here before the append
// so the returned record is complete without a read-back.
func (c *Client) Insert(ctx context.Context, ownerID string, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	rng := fmt.Sprintf("%s!%s", c.ledgerSheet, ledgerColumns)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(ownerID, tx)}}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return core.Transaction{}, remote.NewError("insert", classify(err), err)
	}
	return tx, nil
}

// Update implements remote.Store. The row is located by id and owner id; the
// whole row is rewritten with the ID and owner preserved.
func (c *Client) Update(ctx context.Context, ownerID string, tx core.Transaction) error {
	rowNum, err := c.findRow(ctx, ownerID, tx.ID)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:H%d", c.ledgerSheet, rowNum, rowNum)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(ownerID, tx)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return remote.NewError("update", classify(err), err)
	}
	return nil
}

// Delete implements remote.Store, scoped by both id and owner id.
func (c *Client) Delete(ctx context.Context, ownerID, id string) error {
	rowNum, err := c.findRow(ctx, ownerID, id)
	if err != nil {
		return err
	}
	sheetID, err := c.resolveLedgerSheetID(ctx)
	if err != nil {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1), // zero-based, end exclusive
					EndIndex:   int64(rowNum),
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return remote.NewError("delete", classify(err), err)
	}
	return nil
}

// Premium implements remote.ProfileReader. A missing profile row means the
// identity has no entitlement yet and is treated as non-premium.
func (c *Client) Premium(ctx context.Context, ownerID string) (bool, error) {
	rng := fmt.Sprintf("%s!A:B", c.profilesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return false, remote.NewError("premium", classify(err), err)
	}
	for _, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) < 2 || cols[0] != ownerID {
			continue
		}
		return strings.EqualFold(cols[1], "true"), nil
	}
	return false, nil
}

// findRow returns the 1-based row number of the transaction with the given
// id owned by ownerID, or core.ErrNotFound.
func (c *Client) findRow(ctx context.Context, ownerID, id string) (int, error) {
	rng := fmt.Sprintf("%s!A:B", c.ledgerSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, remote.NewError("find", classify(err), err)
	}
	for i, row := range resp.Values {
		cols := toStrings(row)
		if len(cols) >= 2 && cols[0] == id && cols[1] == ownerID {
			return i + 1, nil
		}
	}
	return 0, core.ErrNotFound
}

// resolveLedgerSheetID looks up the numeric sheet id once and caches it. The
// lock is held across the metadata call so concurrent deletes cannot observe
// a half-written cache.
func (c *Client) resolveLedgerSheetID(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sheetIDKnown {
		return c.ledgerSheetID, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, remote.NewError("sheet metadata", classify(err), err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.ledgerSheet {
			c.ledgerSheetID = sh.Properties.SheetId
			c.sheetIDKnown = true
			return c.ledgerSheetID, nil
		}
	}
	return 0, remote.NewError("sheet metadata", remote.KindUnknown,
		fmt.Errorf("sheet %q not found in spreadsheet", c.ledgerSheet))
}

func rowValues(ownerID string, tx core.Transaction) []any {
	return []any{
		tx.ID,
		ownerID,
		tx.Date.Format(dateLayout),
		string(tx.Type),
		tx.Amount.String(),
		tx.Description,
		tx.Category,
		tx.Client,
	}
}

// parseRow converts one sheet row into a transaction. Header rows and rows
// with unparseable dates or amounts are skipped, not errored: the list is
// best-effort over hand-editable storage.
func parseRow(row []interface{}) (core.Transaction, string, bool) {
	cols := toStrings(row)
	if len(cols) < 7 {
		return core.Transaction{}, "", false
	}
	date, err := time.Parse(dateLayout, cols[2])
	if err != nil {
		return core.Transaction{}, "", false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(cols[4], ",", "."))
	if err != nil {
		return core.Transaction{}, "", false
	}
	tx := core.Transaction{
		ID:          cols[0],
		Date:        date,
		Type:        core.TransactionType(cols[3]),
		Amount:      amount,
		Description: cols[5],
		Category:    cols[6],
	}
	if len(cols) >= 8 {
		tx.Client = cols[7]
	}
	if tx.ID == "" || !tx.Type.Valid() {
		return core.Transaction{}, "", false
	}
	return tx, cols[1], true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// classify maps transport failures onto retry-relevant kinds: auth failures
// are permission errors, timeouts and server-side failures are network.
func classify(err error) remote.Kind {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return remote.KindPermission
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500:
			return remote.KindNetwork
		default:
			return remote.KindUnknown
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return remote.KindNetwork
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return remote.KindNetwork
	}
	return remote.KindUnknown
}
