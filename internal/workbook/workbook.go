package workbook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"
)

const (
	sheetTypeGrid     = "GRID"
	defaultAutoRecalc = "ON_CHANGE"
)

// Source reads local .xlsx workbooks. The spreadsheet id it is asked for is
// the path of the file.
type Source struct{}

// NewSource creates a workbook source.
func NewSource() *Source {
	return &Source{}
}

// FetchSpreadsheet loads the workbook at path into the Sheets grid model.
func (s *Source) FetchSpreadsheet(ctx context.Context, path string, ranges []string) (*sheets.Spreadsheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Load(ctx, data, name, ranges)
}

// Load converts workbook bytes into a spreadsheet with grid data. The id is
// derived from the content so the same file always gets the same id. name is
// the title used when the workbook has none of its own.
func Load(ctx context.Context, data []byte, name string, ranges []string) (*sheets.Spreadsheet, error) {
	selectors := make([]Selector, 0, len(ranges))
	for _, r := range ranges {
		sel, err := ParseSelector(r)
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, sel)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	spreadsheet := &sheets.Spreadsheet{
		SpreadsheetId: uuid.NewSHA1(uuid.NameSpaceOID, data).String(),
		Properties: &sheets.SpreadsheetProperties{
			Title:      name,
			AutoRecalc: defaultAutoRecalc,
		},
	}

	props, err := f.GetDocProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read document properties: %w", err)
	}
	if props.Title != "" {
		spreadsheet.Properties.Title = props.Title
	}
	spreadsheet.Properties.Locale = strings.ReplaceAll(props.Language, "-", "_")

	sheetNames := f.GetSheetList()
	for i, sel := range selectors {
		if sel.Sheet == "" && len(sheetNames) > 0 {
			selectors[i].Sheet = sheetNames[0]
			continue
		}
		if index, err := f.GetSheetIndex(sel.Sheet); err != nil || index < 0 {
			return nil, fmt.Errorf("%w: sheet %q not found", ErrInvalidRange, sel.Sheet)
		}
	}

	for i, sheetName := range sheetNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var sheetSelectors []Selector
		for _, sel := range selectors {
			if sel.Sheet == sheetName {
				sheetSelectors = append(sheetSelectors, sel)
			}
		}
		if len(selectors) > 0 && len(sheetSelectors) == 0 {
			continue
		}
		if len(sheetSelectors) == 0 {
			sheetSelectors = []Selector{{Sheet: sheetName}}
		}

		sheet, err := loadSheet(f, int64(i), sheetName, sheetSelectors)
		if err != nil {
			return nil, fmt.Errorf("failed to load sheet %q: %w", sheetName, err)
		}
		spreadsheet.Sheets = append(spreadsheet.Sheets, sheet)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheet.SpreadsheetId).
		Str("title", spreadsheet.Properties.Title).
		Int("sheets", len(spreadsheet.Sheets)).
		Msg("Loaded workbook")

	return spreadsheet, nil
}

// loadSheet reads one worksheet. Its position in the workbook is its sheet id,
// so the first worksheet maps onto the default sheet of a new spreadsheet.
func loadSheet(f *excelize.File, sheetID int64, name string, selectors []Selector) (*sheets.Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	lastRow, lastCol := len(rows), 0
	for _, row := range rows {
		lastCol = max(lastCol, len(row))
	}
	if lastRow > 0 {
		if dimension, err := f.GetSheetDimension(name); err == nil && dimension != "" {
			if sel, err := ParseSelector(dimension); err == nil && sel.Bounded {
				lastRow = max(lastRow, sel.EndRow)
				lastCol = max(lastCol, sel.EndCol)
			}
		}
	}

	visible, err := f.GetSheetVisible(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read visibility: %w", err)
	}

	gridProps := &sheets.GridProperties{
		RowCount:    int64(lastRow),
		ColumnCount: int64(lastCol),
	}
	panes, err := f.GetPanes(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read panes: %w", err)
	}
	if panes.Freeze {
		gridProps.FrozenRowCount = int64(panes.YSplit)
		gridProps.FrozenColumnCount = int64(panes.XSplit)
	}

	sheet := &sheets.Sheet{
		Properties: &sheets.SheetProperties{
			SheetId:        sheetID,
			Title:          name,
			Index:          sheetID,
			SheetType:      sheetTypeGrid,
			Hidden:         !visible,
			GridProperties: gridProps,
		},
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged cells: %w", err)
	}
	for _, merge := range merges {
		startCol, startRow, err := excelize.CellNameToCoordinates(merge.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("failed to read merge %s: %w", merge.GetStartAxis(), err)
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(merge.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("failed to read merge %s: %w", merge.GetEndAxis(), err)
		}
		sheet.Merges = append(sheet.Merges, &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    int64(startRow - 1),
			EndRowIndex:      int64(endRow),
			StartColumnIndex: int64(startCol - 1),
			EndColumnIndex:   int64(endCol),
		})
	}

	for _, sel := range selectors {
		grid, err := loadGrid(f, name, sel, len(rows), lastRow, lastCol)
		if err != nil {
			return nil, err
		}
		sheet.Data = append(sheet.Data, grid)
	}

	return sheet, nil
}

// loadGrid reads the area a selector covers, clipped to the used area.
func loadGrid(f *excelize.File, name string, sel Selector, storedRows, lastRow, lastCol int) (*sheets.GridData, error) {
	startRow, startCol, endRow, endCol := 1, 1, lastRow, lastCol
	if sel.Bounded {
		startRow, startCol = sel.StartRow, sel.StartCol
		endRow, endCol = min(sel.EndRow, lastRow), min(sel.EndCol, lastCol)
	}

	grid := &sheets.GridData{
		StartRow:    int64(startRow - 1),
		StartColumn: int64(startCol - 1),
	}

	for row := startRow; row <= endRow; row++ {
		rowData := &sheets.RowData{}
		for col := startCol; col <= endCol; col++ {
			cell, err := readCell(f, name, col, row)
			if err != nil {
				return nil, err
			}
			rowData.Values = append(rowData.Values, cell)
		}
		grid.RowData = append(grid.RowData, rowData)

		height, err := f.GetRowHeight(name, row)
		if err != nil {
			return nil, fmt.Errorf("failed to read height of row %d: %w", row, err)
		}
		visible := true
		if row <= storedRows {
			// Rows past the stored ones report as hidden.
			if visible, err = f.GetRowVisible(name, row); err != nil {
				return nil, fmt.Errorf("failed to read visibility of row %d: %w", row, err)
			}
		}
		grid.RowMetadata = append(grid.RowMetadata, &sheets.DimensionProperties{
			PixelSize:    rowHeightPixels(height),
			HiddenByUser: !visible,
		})
	}

	for col := startCol; col <= endCol; col++ {
		label, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return nil, err
		}
		width, err := f.GetColWidth(name, label)
		if err != nil {
			return nil, fmt.Errorf("failed to read width of column %s: %w", label, err)
		}
		visible, err := f.GetColVisible(name, label)
		if err != nil {
			return nil, fmt.Errorf("failed to read visibility of column %s: %w", label, err)
		}
		grid.ColumnMetadata = append(grid.ColumnMetadata, &sheets.DimensionProperties{
			PixelSize:    columnWidthPixels(width),
			HiddenByUser: !visible,
		})
	}

	return grid, nil
}
