// Package document maps the canonical spreadsheet XML document.
//
// Element and attribute names are the wire contract shared with existing
// documents; they must not change. Numeric attributes and the contents of
// merge/metadata nodes are kept as text here and interpreted by the codec, so
// that a missing value can be told apart from a zero.
package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Spreadsheet is the document root.
type Spreadsheet struct {
	XMLName    xml.Name `xml:"spreadsheet"`
	ID         string   `xml:"id,attr"`
	Title      string   `xml:"title,attr"`
	AutoRecalc string   `xml:"autoRecalc,attr"`
	Locale     string   `xml:"locale,attr"`
	Timezone   string   `xml:"timezone,attr"`
	Sheets     []Sheet  `xml:"sheet"`
}

// Sheet holds one grid sheet.
type Sheet struct {
	ID                string          `xml:"id,attr"`
	Title             string          `xml:"title,attr"`
	FrozenRowCount    string          `xml:"frozenRowCount,attr"`
	FrozenColumnCount string          `xml:"frozenColumnCount,attr"`
	Merges            []Merge         `xml:"merge"`
	RowMetadata       *RowMetadata    `xml:"rowMetadata"`
	ColumnMetadata    *ColumnMetadata `xml:"columnMetadata"`
	Rows              []Row           `xml:"row"`
}

// Merge carries 0-based, half-open bounds exactly as the grid reports them.
type Merge struct {
	StartRowIndex    string `xml:"startRowIndex"`
	EndRowIndex      string `xml:"endRowIndex"`
	StartColumnIndex string `xml:"startColumnIndex"`
	EndColumnIndex   string `xml:"endColumnIndex"`
}

// RowMetadata lists per-row display properties keyed by 1-based row id.
type RowMetadata struct {
	Rows []Dimension `xml:"row"`
}

// ColumnMetadata lists per-column display properties keyed by column label.
type ColumnMetadata struct {
	Columns []Dimension `xml:"column"`
}

// Dimension is one row or column metadata entry.
type Dimension struct {
	ID           string `xml:"id,attr"`
	HiddenByUser string `xml:"hiddenByUser"`
	PixelSize    string `xml:"pixelSize"`
}

// Row is a grid row; ID is 1-based.
type Row struct {
	ID      string   `xml:"id,attr"`
	Columns []Column `xml:"column"`
}

// Column is a single cell; ID is the column label.
type Column struct {
	ID        string `xml:"id,attr"`
	Formula   string `xml:"formula"`
	Hyperlink string `xml:"hyperlink"`
	Value     *Value `xml:"value"`
	Style     *Style `xml:"style"`
}

// Value is the type-tagged cell value.
type Value struct {
	Type string `xml:"type,attr"`
	Text string `xml:",chardata"`
}

// Style is the encoded cell format.
type Style struct {
	BackgroundColor *Color      `xml:"bgc"`
	TextFormat      *TextFormat `xml:"textFormat"`
	Padding         *Padding    `xml:"padding"`
	Alignment       Alignment   `xml:"alignment"`
	WrapStrategy    string      `xml:"wrapStrategy"`
}

type Color struct {
	Red   float64 `xml:"red"`
	Green float64 `xml:"green"`
	Blue  float64 `xml:"blue"`
	Alpha float64 `xml:"alpha"`
}

type TextFormat struct {
	FontFamily    string   `xml:"fontFamily"`
	FontSize      int64    `xml:"fontSize"`
	FontColor     *Color   `xml:"fontColor"`
	Italic        Presence `xml:"italic,omitempty"`
	Bold          Presence `xml:"bold,omitempty"`
	Underline     Presence `xml:"underline,omitempty"`
	Strikethrough Presence `xml:"strikethrough,omitempty"`
}

type Padding struct {
	Top    int64 `xml:"top"`
	Left   int64 `xml:"left"`
	Bottom int64 `xml:"bottom"`
	Right  int64 `xml:"right"`
}

type Alignment struct {
	Vertical   string `xml:"vertical"`
	Horizontal string `xml:"horizontal"`
}

// Marshal renders the document as indented XML with a declaration.
func Marshal(doc *Spreadsheet) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Parse reads a document. The error is the raw decoder error; callers decide
// how to classify it.
func Parse(data []byte) (*Spreadsheet, error) {
	var doc Spreadsheet
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
