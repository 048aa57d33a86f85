package codec

import (
	"fmt"
	"strconv"

	"sheetxml/internal/columns"
	"sheetxml/internal/document"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/sheets/v4"
)

const sheetTypeGrid = "GRID"

// Encode serializes a spreadsheet into the canonical XML document.
func Encode(spreadsheet *sheets.Spreadsheet) ([]byte, error) {
	doc, err := Serialize(spreadsheet)
	if err != nil {
		return nil, err
	}
	return document.Marshal(doc)
}

// Serialize walks a fully materialized spreadsheet and builds the document
// tree. Nothing is returned if any sheet fails.
func Serialize(spreadsheet *sheets.Spreadsheet) (*document.Spreadsheet, error) {
	if spreadsheet == nil {
		return nil, fmt.Errorf("spreadsheet is nil")
	}

	doc := &document.Spreadsheet{ID: spreadsheet.SpreadsheetId}
	if p := spreadsheet.Properties; p != nil {
		doc.Title = p.Title
		doc.AutoRecalc = p.AutoRecalc
		doc.Locale = p.Locale
		doc.Timezone = p.TimeZone
	}

	doc.Sheets = make([]document.Sheet, 0, len(spreadsheet.Sheets))
	for i, sheet := range spreadsheet.Sheets {
		node, err := serializeSheet(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %d: %w", i, err)
		}
		doc.Sheets = append(doc.Sheets, node)
	}

	log.Debug().
		Str("spreadsheet_id", doc.ID).
		Int("sheets", len(doc.Sheets)).
		Msg("Serialized spreadsheet")

	return doc, nil
}

func serializeSheet(sheet *sheets.Sheet) (document.Sheet, error) {
	props := sheet.Properties
	if props == nil {
		props = &sheets.SheetProperties{}
	}

	// The API omits sheetType for grid sheets in some responses.
	if props.SheetType != "" && props.SheetType != sheetTypeGrid {
		return document.Sheet{}, fmt.Errorf("%w: sheet %q is %s", ErrUnsupportedSheetKind, props.Title, props.SheetType)
	}
	if len(sheet.Data) > 1 {
		return document.Sheet{}, fmt.Errorf("%w: sheet %q has %d ranges", ErrUnsupportedMultiRange, props.Title, len(sheet.Data))
	}

	var frozenRows, frozenColumns int64
	if gp := props.GridProperties; gp != nil {
		frozenRows = max(gp.FrozenRowCount, 0)
		frozenColumns = max(gp.FrozenColumnCount, 0)
	}

	node := document.Sheet{
		ID:                strconv.FormatInt(props.SheetId, 10),
		Title:             props.Title,
		FrozenRowCount:    strconv.FormatInt(frozenRows, 10),
		FrozenColumnCount: strconv.FormatInt(frozenColumns, 10),
	}

	for _, merge := range sheet.Merges {
		if merge == nil {
			continue
		}
		node.Merges = append(node.Merges, document.Merge{
			StartRowIndex:    strconv.FormatInt(merge.StartRowIndex, 10),
			EndRowIndex:      strconv.FormatInt(merge.EndRowIndex, 10),
			StartColumnIndex: strconv.FormatInt(merge.StartColumnIndex, 10),
			EndColumnIndex:   strconv.FormatInt(merge.EndColumnIndex, 10),
		})
	}

	if len(sheet.Data) == 0 || sheet.Data[0] == nil {
		return node, nil
	}
	grid := sheet.Data[0]

	// StartRow is 0 both when absent and when the grid starts at the top, so
	// the first row is always StartRow+1.
	firstRow := grid.StartRow + 1
	firstColumn := int(grid.StartColumn)

	if len(grid.RowMetadata) > 0 {
		node.RowMetadata = &document.RowMetadata{}
		for i, dim := range grid.RowMetadata {
			node.RowMetadata.Rows = append(node.RowMetadata.Rows,
				encodeDimension(strconv.FormatInt(firstRow+int64(i), 10), dim))
		}
	}

	if len(grid.ColumnMetadata) > 0 {
		node.ColumnMetadata = &document.ColumnMetadata{}
		for i, dim := range grid.ColumnMetadata {
			label, err := columns.LabelOf(firstColumn + i)
			if err != nil {
				return document.Sheet{}, fmt.Errorf("column metadata %d: %w", i, err)
			}
			node.ColumnMetadata.Columns = append(node.ColumnMetadata.Columns, encodeDimension(label, dim))
		}
	}

	node.Rows = make([]document.Row, 0, len(grid.RowData))
	for i, rowData := range grid.RowData {
		rowID := firstRow + int64(i)
		row, err := serializeRow(rowID, firstColumn, rowData)
		if err != nil {
			return document.Sheet{}, fmt.Errorf("row %d: %w", rowID, err)
		}
		node.Rows = append(node.Rows, row)
	}

	return node, nil
}

func serializeRow(rowID int64, firstColumn int, rowData *sheets.RowData) (document.Row, error) {
	row := document.Row{ID: strconv.FormatInt(rowID, 10)}
	if rowData == nil {
		return row, nil
	}

	row.Columns = make([]document.Column, 0, len(rowData.Values))
	for i, cell := range rowData.Values {
		label, err := columns.LabelOf(firstColumn + i)
		if err != nil {
			return document.Row{}, err
		}
		row.Columns = append(row.Columns, serializeCell(label, cell))
	}
	return row, nil
}

func serializeCell(label string, cell *sheets.CellData) document.Column {
	column := document.Column{ID: label}
	if cell == nil {
		column.Value = NullValue().Node()
		return column
	}

	if uev := cell.UserEnteredValue; uev != nil && uev.FormulaValue != nil {
		column.Formula = *uev.FormulaValue
	}
	column.Hyperlink = cell.Hyperlink
	column.Value = ValueOf(cell.EffectiveValue).Node()

	format := cell.EffectiveFormat
	if format == nil {
		format = cell.UserEnteredFormat
	}
	column.Style = EncodeFormat(format)

	return column
}

func encodeDimension(id string, dim *sheets.DimensionProperties) document.Dimension {
	node := document.Dimension{ID: id, HiddenByUser: "0", PixelSize: "0"}
	if dim == nil {
		return node
	}
	if dim.HiddenByUser {
		node.HiddenByUser = "1"
	}
	node.PixelSize = strconv.FormatInt(dim.PixelSize, 10)
	return node
}
