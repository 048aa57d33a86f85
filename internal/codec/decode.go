package codec

import (
	"fmt"
	"strconv"
	"strings"

	"sheetxml/internal/columns"
	"sheetxml/internal/document"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/sheets/v4"
)

const (
	// DefaultSheetID is the id of the sheet every new spreadsheet starts with.
	// It cannot be added again, only updated.
	DefaultSheetID = 0

	spreadsheetPropertiesFields = "*"
	sheetPropertiesFields       = "title,gridProperties.frozenRowCount,gridProperties.frozenColumnCount"
	updateCellsFields           = "*"
	dimensionPropertiesFields   = "pixelSize,hiddenByUser"
	mergeTypeAll                = "MERGE_ALL"
	dimensionRows               = "ROWS"
	dimensionColumns            = "COLUMNS"
)

// Decode parses a canonical XML document and rebuilds the batch update requests.
func Decode(data []byte) ([]*sheets.Request, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Deserialize(doc)
}

// Parse reads the XML document, classifying decoder failures as ErrXMLParse.
func Parse(data []byte) (*document.Spreadsheet, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrXMLParse, err)
	}
	return doc, nil
}

// Deserialize turns a document into requests in the order the API needs them:
// spreadsheet properties first, then for every sheet its properties, cells,
// merges and dimension metadata.
func Deserialize(doc *document.Spreadsheet) ([]*sheets.Request, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrXMLParse)
	}
	if doc.Title == "" {
		return nil, missing("spreadsheet", "title")
	}

	requests := []*sheets.Request{{
		UpdateSpreadsheetProperties: &sheets.UpdateSpreadsheetPropertiesRequest{
			Properties: &sheets.SpreadsheetProperties{
				Title:      doc.Title,
				Locale:     doc.Locale,
				TimeZone:   doc.Timezone,
				AutoRecalc: doc.AutoRecalc,
			},
			Fields: spreadsheetPropertiesFields,
		},
	}}

	for i := range doc.Sheets {
		sheetRequests, err := deserializeSheet(&doc.Sheets[i])
		if err != nil {
			return nil, fmt.Errorf("sheet %d: %w", i, err)
		}
		requests = append(requests, sheetRequests...)
	}

	log.Debug().
		Str("title", doc.Title).
		Int("sheets", len(doc.Sheets)).
		Int("requests", len(requests)).
		Msg("Deserialized document")

	return requests, nil
}

func deserializeSheet(node *document.Sheet) ([]*sheets.Request, error) {
	if node.ID == "" {
		return nil, missing("sheet", "id")
	}
	if node.Title == "" {
		return nil, missing("sheet", "title")
	}

	sheetID, err := parseInt("sheet", "id", node.ID)
	if err != nil {
		return nil, err
	}
	frozenRows, err := parseOptionalInt("sheet", "frozenRowCount", node.FrozenRowCount)
	if err != nil {
		return nil, err
	}
	frozenColumns, err := parseOptionalInt("sheet", "frozenColumnCount", node.FrozenColumnCount)
	if err != nil {
		return nil, err
	}

	var requests []*sheets.Request

	props := &sheets.SheetProperties{
		Title:   node.Title,
		SheetId: sheetID,
		GridProperties: &sheets.GridProperties{
			FrozenRowCount:    frozenRows,
			FrozenColumnCount: frozenColumns,
		},
	}
	if sheetID == DefaultSheetID {
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: props,
				Fields:     sheetPropertiesFields,
			},
		})
	} else {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{Properties: props},
		})
	}

	if len(node.Rows) > 0 {
		updateCells, err := buildUpdateCells(sheetID, node.Rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, &sheets.Request{UpdateCells: updateCells})
	}

	for i := range node.Merges {
		merge, err := buildMerge(sheetID, &node.Merges[i])
		if err != nil {
			return nil, fmt.Errorf("merge %d: %w", i, err)
		}
		requests = append(requests, &sheets.Request{MergeCells: merge})
	}

	if node.RowMetadata != nil {
		for _, dim := range node.RowMetadata.Rows {
			if dim.ID == "" {
				return nil, missing("rowMetadata/row", "id")
			}
			rowID, err := parseInt("rowMetadata/row", "id", dim.ID)
			if err != nil {
				return nil, err
			}
			if rowID < 1 {
				return nil, parseErrorf("rowMetadata/row id %d is not 1-based", rowID)
			}
			req, err := buildDimensionUpdate(sheetID, dimensionRows, "rowMetadata/row", rowID-1, dim)
			if err != nil {
				return nil, err
			}
			requests = append(requests, req)
		}
	}

	if node.ColumnMetadata != nil {
		for _, dim := range node.ColumnMetadata.Columns {
			if dim.ID == "" {
				return nil, missing("columnMetadata/column", "id")
			}
			offset, err := columns.OffsetOf(dim.ID)
			if err != nil {
				return nil, fmt.Errorf("column metadata %q: %w", dim.ID, err)
			}
			req, err := buildDimensionUpdate(sheetID, dimensionColumns, "columnMetadata/column", int64(offset), dim)
			if err != nil {
				return nil, err
			}
			requests = append(requests, req)
		}
	}

	return requests, nil
}

// buildUpdateCells anchors the block at the first row id and the first column
// label; rows and cells after that are laid out contiguously, with empty
// entries filling any gaps in the ids.
func buildUpdateCells(sheetID int64, rows []document.Row) (*sheets.UpdateCellsRequest, error) {
	if rows[0].ID == "" {
		return nil, missing("row", "id")
	}
	firstRowID, err := parseInt("row", "id", rows[0].ID)
	if err != nil {
		return nil, err
	}
	if firstRowID < 1 {
		return nil, parseErrorf("row id %d is not 1-based", firstRowID)
	}

	startColumn, err := anchorColumn(rows)
	if err != nil {
		return nil, err
	}

	rowData := make([]*sheets.RowData, 0, len(rows))
	nextRowID := firstRowID
	for _, row := range rows {
		if row.ID == "" {
			return nil, missing("row", "id")
		}
		rowID, err := parseInt("row", "id", row.ID)
		if err != nil {
			return nil, err
		}
		if rowID < nextRowID {
			return nil, parseErrorf("row %d is out of order", rowID)
		}
		for ; nextRowID < rowID; nextRowID++ {
			rowData = append(rowData, &sheets.RowData{})
		}

		data, err := buildRowData(startColumn, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowID, err)
		}
		rowData = append(rowData, data)
		nextRowID++
	}

	return &sheets.UpdateCellsRequest{
		Rows:   rowData,
		Fields: updateCellsFields,
		Range: &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    firstRowID - 1,
			StartColumnIndex: int64(startColumn),
		},
	}, nil
}

// anchorColumn is the offset of the first cell of the first row that has any.
func anchorColumn(rows []document.Row) (int, error) {
	for _, row := range rows {
		if len(row.Columns) == 0 {
			continue
		}
		label := row.Columns[0].ID
		if label == "" {
			return 0, missing("column", "id")
		}
		offset, err := columns.OffsetOf(label)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", label, err)
		}
		return offset, nil
	}
	return 0, nil
}

func buildRowData(startColumn int, row document.Row) (*sheets.RowData, error) {
	data := &sheets.RowData{}
	next := startColumn
	for _, column := range row.Columns {
		if column.ID == "" {
			return nil, missing("column", "id")
		}
		offset, err := columns.OffsetOf(column.ID)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", column.ID, err)
		}
		if offset < next {
			return nil, parseErrorf("column %s is out of order", column.ID)
		}
		for ; next < offset; next++ {
			data.Values = append(data.Values, &sheets.CellData{})
		}

		cell, err := buildCellData(column)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", column.ID, err)
		}
		data.Values = append(data.Values, cell)
		next++
	}
	return data, nil
}

// buildCellData prefers a non-empty formula over the tagged value.
func buildCellData(column document.Column) (*sheets.CellData, error) {
	cell := &sheets.CellData{
		UserEnteredFormat: DecodeFormat(column.Style),
	}

	if column.Formula != "" {
		formula := column.Formula
		cell.UserEnteredValue = &sheets.ExtendedValue{FormulaValue: &formula}
	} else {
		value, err := ParseValue(column.Value)
		if err != nil {
			return nil, err
		}
		cell.UserEnteredValue = value.Extended()
	}

	return cell, nil
}

func buildMerge(sheetID int64, merge *document.Merge) (*sheets.MergeCellsRequest, error) {
	bounds := [4]int64{}
	for i, field := range []struct {
		name  string
		value string
	}{
		{"startRowIndex", merge.StartRowIndex},
		{"endRowIndex", merge.EndRowIndex},
		{"startColumnIndex", merge.StartColumnIndex},
		{"endColumnIndex", merge.EndColumnIndex},
	} {
		if strings.TrimSpace(field.value) == "" {
			return nil, missing("merge", field.name)
		}
		v, err := parseInt("merge", field.name, field.value)
		if err != nil {
			return nil, err
		}
		bounds[i] = v
	}

	return &sheets.MergeCellsRequest{
		Range: &sheets.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    bounds[0],
			EndRowIndex:      bounds[1],
			StartColumnIndex: bounds[2],
			EndColumnIndex:   bounds[3],
		},
		MergeType: mergeTypeAll,
	}, nil
}

func buildDimensionUpdate(sheetID int64, dimension, node string, index int64, dim document.Dimension) (*sheets.Request, error) {
	pixelSize, err := parseOptionalInt(node, "pixelSize", dim.PixelSize)
	if err != nil {
		return nil, err
	}
	hidden, err := parseFlag(node, "hiddenByUser", dim.HiddenByUser)
	if err != nil {
		return nil, err
	}

	return &sheets.Request{
		UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
			Range: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  dimension,
				StartIndex: index,
				EndIndex:   index + 1,
			},
			Properties: &sheets.DimensionProperties{
				PixelSize:    pixelSize,
				HiddenByUser: hidden,
			},
			Fields: dimensionPropertiesFields,
		},
	}, nil
}

func parseInt(node, attribute, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, parseErrorf("%s/@%s: invalid integer %q", node, attribute, value)
	}
	return v, nil
}

// parseOptionalInt reads an integer that defaults to 0 when empty.
func parseOptionalInt(node, attribute, value string) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseInt(node, attribute, value)
}

// parseFlag reads 1/0 style booleans; empty means false.
func parseFlag(node, attribute, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, parseErrorf("%s/@%s: invalid flag %q", node, attribute, value)
	}
	return b, nil
}
