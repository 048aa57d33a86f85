package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sheetxml/internal/codec"

	"github.com/rs/zerolog/log"
)

// DefaultNameLayout formats the time suffix of generated spreadsheet names.
const DefaultNameLayout = "15:04:05 02.01.2006"

// ErrEmptyDocument is returned when there is nothing to import.
var ErrEmptyDocument = errors.New("document is empty")

// DefaultName is the spreadsheet name used when an import is not given one.
func DefaultName(now time.Time) string {
	return "Create Test " + now.Format(DefaultNameLayout)
}

// Document is an exported spreadsheet.
type Document struct {
	SpreadsheetID string
	Title         string
	Data          []byte
}

// FileName is the name the document is published under.
func (d *Document) FileName() string {
	return d.SpreadsheetID + ".xml"
}

// Exporter turns spreadsheets into XML documents.
type Exporter struct {
	source    SpreadsheetSource
	publisher Publisher
}

// NewExporter creates an exporter. publisher may be nil to skip publication.
func NewExporter(source SpreadsheetSource, publisher Publisher) *Exporter {
	return &Exporter{
		source:    source,
		publisher: publisher,
	}
}

// Export fetches the spreadsheet, encodes it and publishes the result when a
// publisher is configured. Nothing is published if encoding fails.
func (e *Exporter) Export(ctx context.Context, spreadsheetID string, ranges []string) (*Document, error) {
	spreadsheet, err := e.source.FetchSpreadsheet(ctx, spreadsheetID, ranges)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}

	data, err := codec.Encode(spreadsheet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode spreadsheet %s: %w", spreadsheetID, err)
	}

	doc := &Document{
		SpreadsheetID: spreadsheet.SpreadsheetId,
		Data:          data,
	}
	if doc.SpreadsheetID == "" {
		doc.SpreadsheetID = spreadsheetID
	}
	if spreadsheet.Properties != nil {
		doc.Title = spreadsheet.Properties.Title
	}

	log.Info().
		Str("spreadsheet_id", doc.SpreadsheetID).
		Str("title", doc.Title).
		Int("sheets", len(spreadsheet.Sheets)).
		Int("bytes", len(data)).
		Msg("Exported spreadsheet")

	if e.publisher != nil {
		if err := e.publisher.Publish(doc.FileName(), data); err != nil {
			return nil, fmt.Errorf("failed to publish %s: %w", doc.FileName(), err)
		}
	}

	return doc, nil
}

// Importer rebuilds spreadsheets from XML documents.
type Importer struct {
	target SpreadsheetTarget
	now    func() time.Time
}

// NewImporter creates an importer writing to target.
func NewImporter(target SpreadsheetTarget) *Importer {
	return &Importer{
		target: target,
		now:    time.Now,
	}
}

// Import decodes the document and applies it to a newly created spreadsheet,
// returning the new spreadsheet id. The document is fully decoded before
// anything is created remotely. An empty name gets DefaultName.
func (i *Importer) Import(ctx context.Context, data []byte, name, folderID string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	requests, err := codec.Decode(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode document: %w", err)
	}

	if name == "" {
		name = DefaultName(i.now())
	}

	spreadsheetID, err := i.target.CreateSpreadsheet(ctx, name, folderID)
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	if err := i.target.ApplyRequests(ctx, spreadsheetID, requests); err != nil {
		return spreadsheetID, fmt.Errorf("failed to apply document to %s: %w", spreadsheetID, err)
	}

	log.Info().
		Str("spreadsheet_id", spreadsheetID).
		Str("name", name).
		Int("requests", len(requests)).
		Msg("Imported document")

	return spreadsheetID, nil
}
