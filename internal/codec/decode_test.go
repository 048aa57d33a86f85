package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<spreadsheet id="S1" title="Demo" autoRecalc="ON_CHANGE" locale="en_US" timezone="Europe/Berlin">
  <sheet id="0" title="Sheet1" frozenRowCount="1" frozenColumnCount="2">
    <merge><startRowIndex>0</startRowIndex><endRowIndex>2</endRowIndex><startColumnIndex>0</startColumnIndex><endColumnIndex>1</endColumnIndex></merge>
    <rowMetadata>
      <row id="2"><hiddenByUser>0</hiddenByUser><pixelSize>21</pixelSize></row>
    </rowMetadata>
    <columnMetadata>
      <column id="B"><hiddenByUser>1</hiddenByUser><pixelSize>100</pixelSize></column>
    </columnMetadata>
    <row id="2">
      <column id="B">
        <formula></formula>
        <hyperlink></hyperlink>
        <value type="NUMBER">42.5</value>
      </column>
      <column id="C">
        <formula>=B2*2</formula>
        <hyperlink></hyperlink>
        <value type="NUMBER">85</value>
        <style>
          <bgc><red>1</red><green>1</green><blue>1</blue><alpha>1</alpha></bgc>
          <textFormat><fontFamily>Arial</fontFamily><fontSize>10</fontSize><bold/></textFormat>
          <alignment><vertical>BOTTOM</vertical><horizontal></horizontal></alignment>
          <wrapStrategy>OVERFLOW_CELL</wrapStrategy>
        </style>
      </column>
    </row>
    <row id="3">
      <column id="B">
        <formula></formula>
        <hyperlink></hyperlink>
        <value type="BOOLEAN">1</value>
      </column>
      <column id="C">
        <formula></formula>
        <hyperlink></hyperlink>
        <value type="NULL"></value>
      </column>
    </row>
  </sheet>
  <sheet id="42" title="Notes" frozenRowCount="0" frozenColumnCount="0">
  </sheet>
</spreadsheet>`

func TestDecodeRequestOrder(t *testing.T) {
	requests, err := Decode([]byte(sampleDocument))
	require.NoError(t, err)
	require.Len(t, requests, 7)

	// spreadsheet properties
	usp := requests[0].UpdateSpreadsheetProperties
	require.NotNil(t, usp)
	assert.Equal(t, "*", usp.Fields)
	assert.Equal(t, &sheets.SpreadsheetProperties{
		Title:      "Demo",
		Locale:     "en_US",
		TimeZone:   "Europe/Berlin",
		AutoRecalc: "ON_CHANGE",
	}, usp.Properties)

	// default sheet is updated, not added
	assert.Nil(t, requests[1].AddSheet)
	usheet := requests[1].UpdateSheetProperties
	require.NotNil(t, usheet)
	assert.Equal(t, "title,gridProperties.frozenRowCount,gridProperties.frozenColumnCount", usheet.Fields)
	assert.Equal(t, "Sheet1", usheet.Properties.Title)
	assert.Equal(t, int64(0), usheet.Properties.SheetId)
	assert.Equal(t, int64(1), usheet.Properties.GridProperties.FrozenRowCount)
	assert.Equal(t, int64(2), usheet.Properties.GridProperties.FrozenColumnCount)

	// cells
	uc := requests[2].UpdateCells
	require.NotNil(t, uc)
	assert.Equal(t, "*", uc.Fields)
	assert.Equal(t, &sheets.GridRange{SheetId: 0, StartRowIndex: 1, StartColumnIndex: 1}, uc.Range)
	require.Len(t, uc.Rows, 2)
	require.Len(t, uc.Rows[0].Values, 2)

	first := uc.Rows[0].Values[0]
	require.NotNil(t, first.UserEnteredValue)
	require.NotNil(t, first.UserEnteredValue.NumberValue)
	assert.Equal(t, 42.5, *first.UserEnteredValue.NumberValue)
	assert.Nil(t, first.UserEnteredFormat)

	formula := uc.Rows[0].Values[1]
	require.NotNil(t, formula.UserEnteredValue.FormulaValue)
	assert.Equal(t, "=B2*2", *formula.UserEnteredValue.FormulaValue)
	assert.Nil(t, formula.UserEnteredValue.NumberValue, "formula overrides the tagged value")
	require.NotNil(t, formula.UserEnteredFormat)
	assert.True(t, formula.UserEnteredFormat.TextFormat.Bold)
	assert.False(t, formula.UserEnteredFormat.TextFormat.Italic)
	assert.Equal(t, "BOTTOM", formula.UserEnteredFormat.VerticalAlignment)
	assert.Equal(t, &sheets.Padding{}, formula.UserEnteredFormat.Padding)

	boolean := uc.Rows[1].Values[0]
	require.NotNil(t, boolean.UserEnteredValue.BoolValue)
	assert.True(t, *boolean.UserEnteredValue.BoolValue)
	assert.Nil(t, uc.Rows[1].Values[1].UserEnteredValue)

	// merge
	merge := requests[3].MergeCells
	require.NotNil(t, merge)
	assert.Equal(t, "MERGE_ALL", merge.MergeType)
	assert.Equal(t, &sheets.GridRange{SheetId: 0, StartRowIndex: 0, EndRowIndex: 2, StartColumnIndex: 0, EndColumnIndex: 1}, merge.Range)

	// row metadata
	rowDim := requests[4].UpdateDimensionProperties
	require.NotNil(t, rowDim)
	assert.Equal(t, "pixelSize,hiddenByUser", rowDim.Fields)
	assert.Equal(t, &sheets.DimensionRange{SheetId: 0, Dimension: "ROWS", StartIndex: 1, EndIndex: 2}, rowDim.Range)
	assert.Equal(t, &sheets.DimensionProperties{PixelSize: 21}, rowDim.Properties)

	// column metadata
	colDim := requests[5].UpdateDimensionProperties
	require.NotNil(t, colDim)
	assert.Equal(t, &sheets.DimensionRange{SheetId: 0, Dimension: "COLUMNS", StartIndex: 1, EndIndex: 2}, colDim.Range)
	assert.Equal(t, &sheets.DimensionProperties{PixelSize: 100, HiddenByUser: true}, colDim.Properties)

	// second sheet is added; it has no rows so no updateCells follows
	add := requests[6].AddSheet
	require.NotNil(t, add)
	assert.Equal(t, int64(42), add.Properties.SheetId)
	assert.Equal(t, "Notes", add.Properties.Title)
}

func TestDecodeEmptySheetOmitsUpdateCells(t *testing.T) {
	requests, err := Decode([]byte(`<spreadsheet id="x" title="T"><sheet id="3" title="Empty"></sheet></spreadsheet>`))
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.NotNil(t, requests[0].UpdateSpreadsheetProperties)
	assert.NotNil(t, requests[1].AddSheet)
}

func TestDecodeFillsGaps(t *testing.T) {
	input := `<spreadsheet id="x" title="T"><sheet id="1" title="Gaps">
<row id="5"><column id="B"><formula></formula><hyperlink></hyperlink><value type="STRING">a</value></column>
<column id="D"><formula></formula><hyperlink></hyperlink><value type="STRING">b</value></column></row>
<row id="7"><column id="B"><formula></formula><hyperlink></hyperlink><value type="STRING">c</value></column></row>
</sheet></spreadsheet>`

	requests, err := Decode([]byte(input))
	require.NoError(t, err)
	require.Len(t, requests, 3)

	uc := requests[2].UpdateCells
	require.NotNil(t, uc)
	assert.Equal(t, int64(4), uc.Range.StartRowIndex)
	assert.Equal(t, int64(1), uc.Range.StartColumnIndex)
	require.Len(t, uc.Rows, 3)
	require.Len(t, uc.Rows[0].Values, 3)
	assert.Nil(t, uc.Rows[0].Values[1].UserEnteredValue)
	assert.Equal(t, "b", *uc.Rows[0].Values[2].UserEnteredValue.StringValue)
	assert.Empty(t, uc.Rows[1].Values)
	assert.Equal(t, "c", *uc.Rows[2].Values[0].UserEnteredValue.StringValue)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		node      string
		attribute string
	}{
		{"SpreadsheetTitle", `<spreadsheet id="x"></spreadsheet>`, "spreadsheet", "title"},
		{"SheetID", `<spreadsheet title="T"><sheet title="A"></sheet></spreadsheet>`, "sheet", "id"},
		{"SheetTitle", `<spreadsheet title="T"><sheet id="1"></sheet></spreadsheet>`, "sheet", "title"},
		{"RowID", `<spreadsheet title="T"><sheet id="1" title="A"><row><column id="A"/></row></sheet></spreadsheet>`, "row", "id"},
		{"ColumnID", `<spreadsheet title="T"><sheet id="1" title="A"><row id="1"><column><value type="NULL"/></column></row></sheet></spreadsheet>`, "column", "id"},
		{"ValueType", `<spreadsheet title="T"><sheet id="1" title="A"><row id="1"><column id="A"><value>1</value></column></row></sheet></spreadsheet>`, "value", "type"},
		{"MergeBound", `<spreadsheet title="T"><sheet id="1" title="A"><merge><startRowIndex>0</startRowIndex><endRowIndex>1</endRowIndex><startColumnIndex>0</startColumnIndex></merge></sheet></spreadsheet>`, "merge", "endColumnIndex"},
		{"RowMetadataID", `<spreadsheet title="T"><sheet id="1" title="A"><rowMetadata><row><pixelSize>3</pixelSize></row></rowMetadata></sheet></spreadsheet>`, "rowMetadata/row", "id"},
		{"ColumnMetadataID", `<spreadsheet title="T"><sheet id="1" title="A"><columnMetadata><column><pixelSize>3</pixelSize></column></columnMetadata></sheet></spreadsheet>`, "columnMetadata/column", "id"},
	}

	for _, tc := range testCases {
		t.Run("Missing"+tc.name, func(t *testing.T) {
			requests, err := Decode([]byte(tc.input))
			assert.Nil(t, requests)
			require.True(t, errors.Is(err, ErrMissingAttribute), "got %v", err)

			var missingErr *MissingAttributeError
			require.True(t, errors.As(err, &missingErr))
			assert.Equal(t, tc.node, missingErr.Node)
			assert.Equal(t, tc.attribute, missingErr.Attribute)
		})
	}

	t.Run("Malformed", func(t *testing.T) {
		_, err := Decode([]byte(`<spreadsheet title="T"><sheet`))
		assert.True(t, errors.Is(err, ErrXMLParse), "got %v", err)
	})

	t.Run("NonNumericSheetID", func(t *testing.T) {
		_, err := Decode([]byte(`<spreadsheet title="T"><sheet id="one" title="A"></sheet></spreadsheet>`))
		assert.True(t, errors.Is(err, ErrXMLParse), "got %v", err)
	})

	t.Run("RowsOutOfOrder", func(t *testing.T) {
		_, err := Decode([]byte(`<spreadsheet title="T"><sheet id="1" title="A"><row id="3"></row><row id="2"></row></sheet></spreadsheet>`))
		assert.True(t, errors.Is(err, ErrXMLParse), "got %v", err)
	})

	t.Run("ColumnBeyondZZ", func(t *testing.T) {
		_, err := Decode([]byte(`<spreadsheet title="T"><sheet id="1" title="A"><row id="1"><column id="AAA"><value type="NULL"/></column></row></sheet></spreadsheet>`))
		assert.True(t, errors.Is(err, ErrColumnOutOfRange), "got %v", err)
	})

	t.Run("RowMetadataIDBelowOne", func(t *testing.T) {
		requests, err := Decode([]byte(`<spreadsheet title="T"><sheet id="1" title="A"><rowMetadata><row id="0"><hiddenByUser>0</hiddenByUser><pixelSize>21</pixelSize></row></rowMetadata></sheet></spreadsheet>`))
		assert.Nil(t, requests)
		assert.True(t, errors.Is(err, ErrXMLParse), "got %v", err)
	})

	t.Run("UnknownValueType", func(t *testing.T) {
		_, err := Decode([]byte(`<spreadsheet title="T"><sheet id="1" title="A"><row id="1"><column id="A"><value type="DATE">x</value></column></row></sheet></spreadsheet>`))
		assert.True(t, errors.Is(err, ErrXMLParse), "got %v", err)
	})
}

func TestDecodeMergeFidelity(t *testing.T) {
	spreadsheet := &sheets.Spreadsheet{
		SpreadsheetId: "S1",
		Properties:    &sheets.SpreadsheetProperties{Title: "Merged"},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{SheetId: 0, Title: "Sheet1", SheetType: "GRID"},
			Merges:     []*sheets.GridRange{{StartRowIndex: 0, EndRowIndex: 2, StartColumnIndex: 0, EndColumnIndex: 1}},
		}},
	}

	encoded, err := Encode(spreadsheet)
	require.NoError(t, err)

	requests, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, requests, 3)

	merge := requests[2].MergeCells
	require.NotNil(t, merge)
	assert.Equal(t, "MERGE_ALL", merge.MergeType)
	assert.Equal(t, int64(0), merge.Range.StartRowIndex)
	assert.Equal(t, int64(2), merge.Range.EndRowIndex)
	assert.Equal(t, int64(0), merge.Range.StartColumnIndex)
	assert.Equal(t, int64(1), merge.Range.EndColumnIndex)
}

func TestStringsOutsideXMLCharacterRange(t *testing.T) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: "Control"},
		Sheets: []*sheets.Sheet{{
			Properties: &sheets.SheetProperties{SheetId: 0, Title: "Sheet1"},
			Data: []*sheets.GridData{{
				RowData: []*sheets.RowData{{
					Values: []*sheets.CellData{{
						EffectiveValue: &sheets.ExtendedValue{StringValue: ptrString("a\x01b\tc\r\nd")},
					}},
				}},
			}},
		}},
	}

	encoded, err := Encode(spreadsheet)
	require.NoError(t, err)

	requests, err := Decode(encoded)
	require.NoError(t, err)
	require.Len(t, requests, 3)

	value := requests[2].UpdateCells.Rows[0].Values[0].UserEnteredValue
	require.NotNil(t, value)
	require.NotNil(t, value.StringValue)
	assert.Equal(t, "a\uFFFDb\tc\r\nd", *value.StringValue)
}
