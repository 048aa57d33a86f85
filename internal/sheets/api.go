package sheets

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// SheetsAPI defines the interface for interacting with Google Sheets and Drive.
// It is the only boundary where the remote service is called; encoding and
// decoding work on the returned values.
type SheetsAPI interface {
	// FetchSpreadsheet reads a spreadsheet including grid data.
	// ranges limits the grid data to the given A1 ranges; empty means everything.
	FetchSpreadsheet(ctx context.Context, spreadsheetID string, ranges []string) (*sheets.Spreadsheet, error)

	// CreateSpreadsheet creates an empty spreadsheet file, optionally inside a
	// Drive folder, and returns its id.
	CreateSpreadsheet(ctx context.Context, name, folderID string) (string, error)

	// ApplyRequests submits requests as a single batch update.
	ApplyRequests(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error
}
