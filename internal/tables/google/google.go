// Package google backs the budget tables with a Google Sheets spreadsheet,
// the storage the budget originally lived in. The category table and the
// transaction table are two worksheets of one spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"budgetapp/internal/tables"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	categoriesSheet   string
	transactionsSheet string

	// worksheet title -> numeric sheet ID, needed for row deletion
	sheetIDMu sync.Mutex
	sheetIDs  map[string]int64
}

var _ tables.RowStore = (*Client)(nil)

// NewFromEnv creates a Sheets-backed row store using environment variables
// and service-account credentials.
// Required: GOOGLE_SPREADSHEET_ID.
// Optional sheet names: GOOGLE_CATEGORIES_SHEET_NAME (default "main"),
// GOOGLE_TRANSACTIONS_SHEET_NAME (default "transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	catsSheet := strings.TrimSpace(os.Getenv("GOOGLE_CATEGORIES_SHEET_NAME"))
	if catsSheet == "" {
		catsSheet = "main"
	}
	txsSheet := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if txsSheet == "" {
		txsSheet = "transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		categoriesSheet:   catsSheet,
		transactionsSheet: txsSheet,
		sheetIDs:          map[string]int64{},
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
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

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

func (c *Client) sheetName(table tables.Table) (string, error) {
	switch table {
	case tables.Categories:
		return c.categoriesSheet, nil
	case tables.Transactions:
		return c.transactionsSheet, nil
	default:
		return "", tables.ErrUnknownTable
	}
}

// colLetter converts a 1-based column index to its spreadsheet letter.
// Both budget tables are narrower than 26 columns.
func colLetter(col int) (string, error) {
	if col < 1 || col > 26 {
		return "", tables.ErrColNotFound
	}
	return string(rune('A' + col - 1)), nil
}

func (c *Client) ListColumn(ctx context.Context, table tables.Table, col int) ([]string, error) {
	sheet, err := c.sheetName(table)
	if err != nil {
		return nil, err
	}
	letter, err := colLetter(col)
	if err != nil {
		return nil, err
	}
	width, err := tables.Width(table)
	if err != nil {
		return nil, err
	}
	if col > width {
		return nil, tables.ErrColNotFound
	}
	rng := fmt.Sprintf("%s!%s:%s", sheet, letter, letter)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimSpace(fmt.Sprint(row[0])))
	}
	return out, nil
}

func (c *Client) ReadRow(ctx context.Context, table tables.Table, row int) ([]string, error) {
	sheet, err := c.sheetName(table)
	if err != nil {
		return nil, err
	}
	width, err := tables.Width(table)
	if err != nil {
		return nil, err
	}
	if row < 1 {
		return nil, tables.ErrRowNotFound
	}
	lastCol, _ := colLetter(width)
	rng := fmt.Sprintf("%s!A%d:%s%d", sheet, row, lastCol, row)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return nil, tables.ErrRowNotFound
	}
	cells := make([]string, width)
	for i := 0; i < width && i < len(resp.Values[0]); i++ {
		cells[i] = strings.TrimSpace(fmt.Sprint(resp.Values[0][i]))
	}
	return cells, nil
}

func (c *Client) WriteCell(ctx context.Context, table tables.Table, row, col int, value string) error {
	sheet, err := c.sheetName(table)
	if err != nil {
		return err
	}
	letter, err := colLetter(col)
	if err != nil {
		return err
	}
	if row < 1 {
		return tables.ErrRowNotFound
	}
	rng := fmt.Sprintf("%s!%s%d", sheet, letter, row)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (c *Client) AppendRow(ctx context.Context, table tables.Table, values []string) error {
	sheet, err := c.sheetName(table)
	if err != nil {
		return err
	}
	width, err := tables.Width(table)
	if err != nil {
		return err
	}
	if len(values) != width {
		return tables.ErrColNotFound
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	lastCol, _ := colLetter(width)
	rng := fmt.Sprintf("%s!A:%s", sheet, lastCol)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}

func (c *Client) DeleteRow(ctx context.Context, table tables.Table, row int) error {
	sheet, err := c.sheetName(table)
	if err != nil {
		return err
	}
	if row < 1 {
		return tables.ErrRowNotFound
	}
	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func (c *Client) RowCount(ctx context.Context, table tables.Table) (int, error) {
	sheet, err := c.sheetName(table)
	if err != nil {
		return 0, err
	}
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	return len(resp.Values), nil
}

// sheetID resolves a worksheet title to its numeric ID, caching the result.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	c.sheetIDMu.Lock()
	defer c.sheetIDMu.Unlock()
	if id, ok := c.sheetIDs[title]; ok {
		return id, nil
	}
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			c.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := c.sheetIDs[title]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found in spreadsheet", title)
	}
	return id, nil
}
