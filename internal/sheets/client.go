package sheets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sheetxml/internal/config"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SpreadsheetMimeType makes Drive create a native spreadsheet instead of a blob.
const SpreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Client implements the SheetsAPI interface using the Google Sheets and Drive APIs.
type Client struct {
	service    *sheets.Service
	drive      *drive.Service
	resilience config.ResilienceConfig

	apiCallCount int64
	apiCallMutex sync.Mutex
}

// NewClient creates a new Google Sheets client with the provided credentials
func NewClient(ctx context.Context, credentialsFile string, resilience config.ResilienceConfig) (*Client, error) {
	service, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return newClientFromServices(service, driveService, resilience), nil
}

func newClientFromServices(service *sheets.Service, driveService *drive.Service, resilience config.ResilienceConfig) *Client {
	return &Client{
		service:    service,
		drive:      driveService,
		resilience: resilience,
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the number of requests sent, retries included
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// FetchSpreadsheet reads the spreadsheet with grid data for the given ranges.
func (c *Client) FetchSpreadsheet(ctx context.Context, spreadsheetID string, ranges []string) (*sheets.Spreadsheet, error) {
	var spreadsheet *sheets.Spreadsheet

	err := withRetry(ctx, "fetch spreadsheet", c.resilience.SheetRead, func(ctx context.Context) error {
		c.IncrementAPICall()
		call := c.service.Spreadsheets.Get(spreadsheetID).IncludeGridData(true)
		if len(ranges) > 0 {
			call = call.Ranges(ranges...)
		}
		resp, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		spreadsheet = resp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Strs("ranges", ranges).
		Int("sheets", len(spreadsheet.Sheets)).
		Msg("Fetched spreadsheet")

	return spreadsheet, nil
}

// CreateSpreadsheet creates a new spreadsheet file through Drive so it can be
// placed in a folder. An empty folderID creates it in the root of the account.
func (c *Client) CreateSpreadsheet(ctx context.Context, name, folderID string) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: SpreadsheetMimeType,
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	var created *drive.File
	err := withRetry(ctx, "create spreadsheet", c.resilience.DriveCreate, func(ctx context.Context) error {
		c.IncrementAPICall()
		resp, err := c.drive.Files.Create(file).Fields("id").Context(ctx).Do()
		if err != nil {
			// a timed out create may still have produced the file
			if errors.Is(err, context.DeadlineExceeded) {
				return &finalError{err: err}
			}
			return err
		}
		created = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet %s: %w", name, err)
	}

	log.Info().
		Str("name", name).
		Str("folder_id", folderID).
		Str("spreadsheet_id", created.Id).
		Msg("Created spreadsheet")

	return created.Id, nil
}

// ApplyRequests submits all requests in one batch update, so the target is
// either fully rebuilt or left untouched by the failing call.
func (c *Client) ApplyRequests(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}

	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}

	err := withRetry(ctx, "batch update", c.resilience.SheetWrite, func(ctx context.Context) error {
		c.IncrementAPICall()
		_, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to apply %d requests to %s: %w", len(requests), spreadsheetID, err)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Int("requests", len(requests)).
		Msg("Applied batch update")

	return nil
}
