package workbook

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/sheets/v4"
)

var horizontalAlignments = map[string]string{
	"left":             "LEFT",
	"center":           "CENTER",
	"centerContinuous": "CENTER",
	"right":            "RIGHT",
}

var verticalAlignments = map[string]string{
	"top":    "TOP",
	"center": "MIDDLE",
	"bottom": "BOTTOM",
}

// readCell converts one workbook cell into cell data. The cached value
// becomes the effective value, the stored formula the user-entered one.
func readCell(f *excelize.File, sheet string, col, row int) (*sheets.CellData, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	cell := &sheets.CellData{}

	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read formula %s: %w", name, err)
	}
	if formula != "" {
		if !strings.HasPrefix(formula, "=") {
			formula = "=" + formula
		}
		cell.UserEnteredValue = &sheets.ExtendedValue{FormulaValue: &formula}
	}

	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read type %s: %w", name, err)
	}
	raw, err := f.GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read value %s: %w", name, err)
	}
	cell.EffectiveValue = effectiveValue(typ, raw)

	hasLink, link, err := f.GetCellHyperLink(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read hyperlink %s: %w", name, err)
	}
	if hasLink {
		cell.Hyperlink = link
	}

	styleID, err := f.GetCellStyle(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read style %s: %w", name, err)
	}
	if styleID != 0 {
		style, err := f.GetStyle(styleID)
		if err != nil {
			return nil, fmt.Errorf("failed to read style %d: %w", styleID, err)
		}
		cell.EffectiveFormat = formatOf(style)
	}

	return cell, nil
}

func effectiveValue(typ excelize.CellType, raw string) *sheets.ExtendedValue {
	if raw == "" {
		return nil
	}

	switch typ {
	case excelize.CellTypeBool:
		b := raw == "1" || strings.EqualFold(raw, "true")
		return &sheets.ExtendedValue{BoolValue: &b}
	case excelize.CellTypeError:
		return &sheets.ExtendedValue{ErrorValue: &sheets.ErrorValue{Type: "ERROR", Message: raw}}
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Numbers are usually stored without a type attribute.
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return &sheets.ExtendedValue{NumberValue: &n}
		}
	}

	s := raw
	return &sheets.ExtendedValue{StringValue: &s}
}

func formatOf(style *excelize.Style) *sheets.CellFormat {
	if style == nil {
		return nil
	}

	format := &sheets.CellFormat{}

	if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
		if c, ok := parseColor(style.Fill.Color[0]); ok {
			format.BackgroundColor = c
		}
	}

	if font := style.Font; font != nil {
		format.TextFormat = &sheets.TextFormat{
			FontFamily:    font.Family,
			FontSize:      int64(math.Round(font.Size)),
			Bold:          font.Bold,
			Italic:        font.Italic,
			Underline:     font.Underline != "" && font.Underline != "none",
			Strikethrough: font.Strike,
		}
		if c, ok := parseColor(font.Color); ok {
			format.TextFormat.ForegroundColor = c
		}
	}

	if align := style.Alignment; align != nil {
		format.HorizontalAlignment = horizontalAlignments[align.Horizontal]
		format.VerticalAlignment = verticalAlignments[align.Vertical]
		if align.WrapText {
			format.WrapStrategy = "WRAP"
		}
	}

	return format
}

// parseColor reads RRGGBB or AARRGGBB hex, with or without a leading '#'.
func parseColor(hex string) (*sheets.Color, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 8 {
		hex = hex[2:]
	}
	if len(hex) != 6 {
		return nil, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, false
	}
	return &sheets.Color{
		Red:   float64(v>>16&0xff) / 255,
		Green: float64(v>>8&0xff) / 255,
		Blue:  float64(v&0xff) / 255,
		Alpha: 1,
	}, true
}

// rowHeightPixels converts a height in points at 96 dpi.
func rowHeightPixels(points float64) int64 {
	return int64(math.Ceil(points * 96 / 72))
}

// columnWidthPixels converts a width in characters of the default font, the
// way spreadsheet applications render it.
func columnWidthPixels(width float64) int64 {
	const maxDigitWidth, padding = 7, 5
	switch {
	case width <= 0:
		return 0
	case width < 1:
		return int64(math.Ceil(width*12 + 0.5))
	default:
		return int64(math.Ceil(width*maxDigitWidth+0.5) + padding)
	}
}
