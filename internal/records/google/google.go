// Package google mirrors dashboard snapshots into a Google Sheets
// spreadsheet, one pair of tabs per year.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"director/internal/dashboard"
)

const (
	DefaultSummaryTab    = "Summary"
	DefaultObjectivesTab = "Objectives"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base tab names without year; the snapshot year is prefixed on export.
	summaryBase    string
	objectivesBase string
}

type Options struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	SummaryTab      string
	ObjectivesTab   string
}

// New creates a Sheets client authenticated with service-account credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if len(opts.CredentialsJSON) == 0 {
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(opts.CredentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClientWithPooling()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	c := &Client{
		svc:            svc,
		spreadsheetID:  strings.TrimSpace(opts.SpreadsheetID),
		summaryBase:    opts.SummaryTab,
		objectivesBase: opts.ObjectivesTab,
	}
	if strings.TrimSpace(c.summaryBase) == "" {
		c.summaryBase = DefaultSummaryTab
	}
	if strings.TrimSpace(c.objectivesBase) == "" {
		c.objectivesBase = DefaultObjectivesTab
	}
	slog.InfoContext(ctx, "Google Sheets client ready", "spreadsheet_id", c.spreadsheetID)
	return c, nil
}

// LoadCredentials returns inline JSON when set, otherwise the contents of
// file, otherwise the file named by GOOGLE_APPLICATION_CREDENTIALS.
func LoadCredentials(inlineJSON, file string) ([]byte, error) {
	if s := strings.TrimSpace(inlineJSON); s != "" {
		return []byte(s), nil
	}
	if strings.TrimSpace(file) == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

// Export overwrites the year's summary and objectives tabs with snap,
// creating the tabs when they do not exist yet.
func (c *Client) Export(ctx context.Context, snap dashboard.Snapshot) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	tabs := []struct {
		name string
		rows [][]any
	}{
		{yearPrefixedName(c.summaryBase, snap.Year), SummaryRows(snap)},
		{yearPrefixedName(c.objectivesBase, snap.Year), ObjectiveRows(snap.Objectives)},
	}

	existing, err := c.sheetTitles(ctx)
	if err != nil {
		return err
	}
	for _, tab := range tabs {
		if _, ok := existing[tab.name]; !ok {
			if err := c.addSheet(ctx, tab.name); err != nil {
				return err
			}
		}
		if err := c.writeTab(ctx, tab.name, tab.rows); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "Snapshot exported to Google Sheets",
		"year", snap.Year,
		"objectives", len(snap.Objectives),
		"spreadsheet_id", c.spreadsheetID)
	return nil
}

func (c *Client) sheetTitles(ctx context.Context) (map[string]struct{}, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet metadata: %w", err)
	}
	out := make(map[string]struct{}, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			out[sh.Properties.Title] = struct{}{}
		}
	}
	return out, nil
}

func (c *Client) addSheet(ctx context.Context, title string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	slog.InfoContext(ctx, "Created sheet tab", "title", title)
	return nil
}

func (c *Client) writeTab(ctx context.Context, title string, rows [][]any) error {
	clearRange := fmt.Sprintf("'%s'!A:Z", title)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}
	rng := fmt.Sprintf("'%s'!A1", title)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s: %w", rng, err)
	}
	return nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
