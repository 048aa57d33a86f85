package mocks

import (
	"context"

	"google.golang.org/api/sheets/v4"
)

// MockSource is a test double for a spreadsheet source
type MockSource struct {
	// Responses to return
	FetchSpreadsheetResponse *sheets.Spreadsheet

	// Errors to return
	FetchSpreadsheetError error

	// Call tracking
	FetchSpreadsheetCalled bool

	// Call parameters tracking
	LastSpreadsheetID string
	LastRanges        []string
}

// FetchSpreadsheet returns the configured spreadsheet
func (m *MockSource) FetchSpreadsheet(ctx context.Context, spreadsheetID string, ranges []string) (*sheets.Spreadsheet, error) {
	m.FetchSpreadsheetCalled = true
	m.LastSpreadsheetID = spreadsheetID
	m.LastRanges = ranges
	return m.FetchSpreadsheetResponse, m.FetchSpreadsheetError
}

// MockTarget is a test double for a spreadsheet target
type MockTarget struct {
	// Responses to return
	CreateSpreadsheetResponse string

	// Errors to return
	CreateSpreadsheetError error
	ApplyRequestsError     error

	// Call tracking
	CreateSpreadsheetCalled bool
	ApplyRequestsCalled     bool

	// Call parameters tracking
	LastName          string
	LastFolderID      string
	LastSpreadsheetID string
	LastRequests      []*sheets.Request
}

// CreateSpreadsheet returns the configured spreadsheet id
func (m *MockTarget) CreateSpreadsheet(ctx context.Context, name, folderID string) (string, error) {
	m.CreateSpreadsheetCalled = true
	m.LastName = name
	m.LastFolderID = folderID
	return m.CreateSpreadsheetResponse, m.CreateSpreadsheetError
}

// ApplyRequests records the requests it was given
func (m *MockTarget) ApplyRequests(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	m.ApplyRequestsCalled = true
	m.LastSpreadsheetID = spreadsheetID
	m.LastRequests = requests
	return m.ApplyRequestsError
}

// MockPublisher is a test double for a document publisher
type MockPublisher struct {
	PublishError  error
	PublishCalled bool
	LastName      string
	LastData      []byte
}

// Publish records the published document
func (m *MockPublisher) Publish(name string, data []byte) error {
	m.PublishCalled = true
	m.LastName = name
	m.LastData = data
	return m.PublishError
}
