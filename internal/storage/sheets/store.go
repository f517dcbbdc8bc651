package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"leaveledger/internal/interfaces"
)

// Store implements interfaces.SheetStore against the Google Sheets v4 API.
// The tracked range (e.g. "VACATION!A2:E") is read and overwritten as a
// whole; the API offers no row-level transaction, so concurrent writers
// race and the last snapshot wins.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

// New builds a Store authenticated with a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID, readRange string) (*Store, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func (s *Store) FetchAll(ctx context.Context) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", s.readRange, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, rec := range resp.Values {
		row := make([]string, 0, len(rec))
		for _, cell := range rec {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) PersistAll(ctx context.Context, rows [][]string) error {
	values := make([][]any, len(rows))
	for i, row := range rows {
		rec := make([]any, len(row))
		for j, cell := range row {
			rec[j] = cell
		}
		values[i] = rec
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, s.readRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets update %s: %w", s.readRange, err)
	}
	return nil
}

var _ interfaces.SheetStore = (*Store)(nil)
