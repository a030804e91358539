package gsheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"sheetPush/internal/logger"
	"sheetPush/internal/sheetcopy"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Options tunes the API client.
type Options struct {
	// Timeout bounds every HTTP request; zero leaves the client default.
	Timeout time.Duration
	Retry   RetryConfig
}

// Service is an opened destination spreadsheet.
type Service struct {
	api           *sheets.Service
	spreadsheetID string
	title         string
	retry         RetryConfig
	worksheets    []sheetcopy.Worksheet
}

// Open authenticates with a service account key file and opens the
// spreadsheet identified by ref (URL or ID).
func Open(ctx context.Context, ref, credentialsPath string, opts Options) (*Service, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	hc := conf.Client(context.Background())
	hc.Timeout = opts.Timeout

	api, err := sheets.NewService(ctx, option.WithHTTPClient(hc))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return New(ctx, api, ref, opts)
}

// New opens ref using an existing API client.
func New(ctx context.Context, api *sheets.Service, ref string, opts Options) (*Service, error) {
	id, err := ExtractSpreadsheetID(ref)
	if err != nil {
		return nil, err
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryConfig()
	}

	s := &Service{api: api, spreadsheetID: id, retry: opts.Retry}
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	logger.Info("Opened spreadsheet", "id", id, "title", s.title, "worksheets", len(s.worksheets))
	return s, nil
}

func (s *Service) ID() string {
	return s.spreadsheetID
}

func (s *Service) Title() string {
	return s.title
}

func (s *Service) refresh(ctx context.Context) error {
	var resp *sheets.Spreadsheet
	err := withRetry(ctx, s.retry, "get spreadsheet", func() error {
		var err error
		resp, err = s.api.Spreadsheets.Get(s.spreadsheetID).
			Fields("properties.title,sheets.properties").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("spreadsheet %s not found or not shared with the service account: %w", s.spreadsheetID, err)
		}
		return fmt.Errorf("failed to open spreadsheet %s: %w", s.spreadsheetID, err)
	}

	if resp.Properties != nil {
		s.title = resp.Properties.Title
	}
	s.worksheets = s.worksheets[:0]
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		s.worksheets = append(s.worksheets, sheetcopy.Worksheet{
			SheetID: sh.Properties.SheetId,
			Title:   sh.Properties.Title,
		})
	}
	return nil
}

// Worksheets lists the worksheets in spreadsheet order.
func (s *Service) Worksheets(ctx context.Context) ([]sheetcopy.Worksheet, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return append([]sheetcopy.Worksheet(nil), s.worksheets...), nil
}

// Worksheet finds a worksheet by exact title. The list is reloaded once
// before giving up, in case the worksheet was added after Open.
func (s *Service) Worksheet(ctx context.Context, title string) (sheetcopy.Worksheet, error) {
	if ws, ok := s.lookup(title); ok {
		return ws, nil
	}
	if err := s.refresh(ctx); err != nil {
		return sheetcopy.Worksheet{}, err
	}
	if ws, ok := s.lookup(title); ok {
		return ws, nil
	}
	return sheetcopy.Worksheet{}, fmt.Errorf("%w: %q", sheetcopy.ErrWorksheetNotFound, title)
}

func (s *Service) lookup(title string) (sheetcopy.Worksheet, bool) {
	for _, ws := range s.worksheets {
		if ws.Title == title {
			return ws, true
		}
	}
	return sheetcopy.Worksheet{}, false
}

// HeaderRow reads row 1 of ws as display text.
func (s *Service) HeaderRow(ctx context.Context, ws sheetcopy.Worksheet) ([]string, error) {
	rows, err := s.readRange(ctx, quoteTitle(ws.Title)+"!1:1")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// ReadAll returns every populated cell of the worksheet as display text.
func (s *Service) ReadAll(ctx context.Context, title string) ([][]string, error) {
	return s.readRange(ctx, quoteTitle(title))
}

func (s *Service) readRange(ctx context.Context, a1 string) ([][]string, error) {
	var resp *sheets.ValueRange
	err := withRetry(ctx, s.retry, "get values", func() error {
		var err error
		resp, err = s.api.Spreadsheets.Values.Get(s.spreadsheetID, a1).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %w", sheetcopy.ErrWorksheetNotFound, a1, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", a1, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprint(v)
		}
	}
	return rows, nil
}

// UpdateValues writes values to a1 in one call, letting the destination
// parse formulas and numbers as if typed.
func (s *Service) UpdateValues(ctx context.Context, ws sheetcopy.Worksheet, a1 string, values [][]any) error {
	vr := &sheets.ValueRange{
		Range:          a1,
		MajorDimension: "ROWS",
		Values:         values,
	}
	started := time.Now()
	err := withRetry(ctx, s.retry, "update values", func() error {
		_, err := s.api.Spreadsheets.Values.Update(s.spreadsheetID, a1, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}
	logger.Debug("Values updated", "worksheet", ws.Title, "range", a1, "rows", len(values), "duration", time.Since(started))
	return nil
}

// BatchFormat applies reqs in one batchUpdate call. It is not retried; the
// caller decides whether to continue after a failure.
func (s *Service) BatchFormat(ctx context.Context, reqs []sheetcopy.FormatRequest) error {
	requests := make([]*sheets.Request, 0, len(reqs))
	for _, r := range reqs {
		if req := formatRequest(r); req != nil {
			requests = append(requests, req)
		}
	}
	if len(requests) == 0 {
		return nil
	}

	_, err := s.api.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return classify(err)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
