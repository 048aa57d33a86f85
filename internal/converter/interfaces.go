package converter

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// SpreadsheetSource provides fully materialized spreadsheets for export.
type SpreadsheetSource interface {
	FetchSpreadsheet(ctx context.Context, spreadsheetID string, ranges []string) (*sheets.Spreadsheet, error)
}

// SpreadsheetTarget creates spreadsheets and applies batch updates to them.
type SpreadsheetTarget interface {
	CreateSpreadsheet(ctx context.Context, name, folderID string) (string, error)
	ApplyRequests(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}

// Publisher stores an exported document somewhere outside the process.
type Publisher interface {
	Publish(name string, data []byte) error
}
