package codec

import (
	"errors"
	"fmt"

	"sheetxml/internal/columns"
)

var (
	// ErrUnsupportedSheetKind is returned when a sheet is not a plain grid.
	ErrUnsupportedSheetKind = errors.New("only grid sheets are supported")
	// ErrUnsupportedMultiRange is returned when a sheet carries more than one data range.
	ErrUnsupportedMultiRange = errors.New("only one data range per sheet is supported")
	// ErrXMLParse is returned for documents that are not well-formed or hold malformed values.
	ErrXMLParse = errors.New("xml cannot be parsed")
	// ErrMissingAttribute is matched by every *MissingAttributeError.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrColumnOutOfRange is returned for columns beyond the label table.
	ErrColumnOutOfRange = columns.ErrOutOfRange
)

// MissingAttributeError names the node and attribute that were absent or empty.
type MissingAttributeError struct {
	Node      string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %s/@%s", ErrMissingAttribute, e.Node, e.Attribute)
}

func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}

func missing(node, attribute string) error {
	return &MissingAttributeError{Node: node, Attribute: attribute}
}

func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrXMLParse, fmt.Sprintf(format, args...))
}
