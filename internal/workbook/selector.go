package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidRange is returned for range selectors that cannot be parsed.
var ErrInvalidRange = errors.New("invalid range selector")

// Selector is a parsed A1 range such as "Sheet1", "'Q1 Data'!B2:D10" or "A1:C3".
// Bounds are 1-based and inclusive. A selector without bounds covers the used
// area of the sheet; one without a sheet name targets the first sheet.
type Selector struct {
	Sheet    string
	Bounded  bool
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseSelector parses a single A1 range.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("%w: empty", ErrInvalidRange)
	}

	var sel Selector
	sheet, area, hasSheet := cutSheet(s)
	if hasSheet {
		sel.Sheet = sheet
		if area == "" {
			return sel, nil
		}
	} else if !looksLikeArea(s) {
		sel.Sheet = s
		return sel, nil
	}

	start, end, isRange := strings.Cut(area, ":")
	if !isRange {
		end = start
	}

	var err error
	if sel.StartCol, sel.StartRow, err = excelize.CellNameToCoordinates(start); err != nil {
		return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	if sel.EndCol, sel.EndRow, err = excelize.CellNameToCoordinates(end); err != nil {
		return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	if sel.EndCol < sel.StartCol || sel.EndRow < sel.StartRow {
		return Selector{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidRange, s)
	}
	sel.Bounded = true
	return sel, nil
}

// cutSheet splits "Sheet!A1:B2" and "'My Sheet'!A1" into name and area.
func cutSheet(s string) (sheet, area string, ok bool) {
	if strings.HasPrefix(s, "'") {
		end := strings.LastIndex(s, "'!")
		if end <= 0 {
			if len(s) > 1 && strings.HasSuffix(s, "'") {
				return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), "", true
			}
			return "", s, false
		}
		return strings.ReplaceAll(s[1:end], "''", "'"), s[end+2:], true
	}
	i := strings.LastIndex(s, "!")
	if i < 0 {
		return "", s, false
	}
	return s[:i], s[i+1:], true
}

// looksLikeArea reports whether s parses as a cell or cell range rather than
// a bare sheet name.
func looksLikeArea(s string) bool {
	start, end, isRange := strings.Cut(s, ":")
	if _, _, err := excelize.CellNameToCoordinates(start); err != nil {
		return false
	}
	if isRange {
		if _, _, err := excelize.CellNameToCoordinates(end); err != nil {
			return false
		}
	}
	return true
}
