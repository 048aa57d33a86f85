package codec

import (
	"strconv"
	"strings"

	"sheetxml/internal/document"

	"google.golang.org/api/sheets/v4"
)

// ValueType is the type tag written on <value>.
type ValueType string

const (
	ValueNull    ValueType = "NULL"
	ValueBoolean ValueType = "BOOLEAN"
	ValueNumber  ValueType = "NUMBER"
	ValueString  ValueType = "STRING"
)

// CellValue is a tagged cell value. Only the field matching Type is meaningful.
type CellValue struct {
	Type   ValueType
	Bool   bool
	Number float64
	String string
}

func NullValue() CellValue { return CellValue{Type: ValueNull} }
func BoolValue(b bool) CellValue { return CellValue{Type: ValueBoolean, Bool: b} }
func NumberValue(n float64) CellValue { return CellValue{Type: ValueNumber, Number: n} }
func StringValue(s string) CellValue { return CellValue{Type: ValueString, String: s} }

// ValueOf reads the active variant of an API value. Error values collapse to
// STRING carrying the error message.
func ValueOf(v *sheets.ExtendedValue) CellValue {
	switch {
	case v == nil:
		return NullValue()
	case v.BoolValue != nil:
		return BoolValue(*v.BoolValue)
	case v.NumberValue != nil:
		return NumberValue(*v.NumberValue)
	case v.StringValue != nil:
		return StringValue(*v.StringValue)
	case v.ErrorValue != nil:
		return StringValue(v.ErrorValue.Message)
	default:
		return NullValue()
	}
}

// Node renders the value as a <value> node.
func (v CellValue) Node() *document.Value {
	node := &document.Value{Type: string(v.Type)}
	switch v.Type {
	case ValueBoolean:
		if v.Bool {
			node.Text = "1"
		} else {
			node.Text = "0"
		}
	case ValueNumber:
		node.Text = strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueString:
		node.Text = v.String
	}
	return node
}

// Extended converts the value into an API user-entered value; NULL yields nil.
func (v CellValue) Extended() *sheets.ExtendedValue {
	switch v.Type {
	case ValueBoolean:
		b := v.Bool
		return &sheets.ExtendedValue{BoolValue: &b}
	case ValueNumber:
		n := v.Number
		return &sheets.ExtendedValue{NumberValue: &n}
	case ValueString:
		s := v.String
		return &sheets.ExtendedValue{StringValue: &s}
	default:
		return nil
	}
}

// ParseValue reads a <value> node; the type tag decides which field is filled.
func ParseValue(node *document.Value) (CellValue, error) {
	if node == nil {
		return NullValue(), nil
	}
	if node.Type == "" {
		return CellValue{}, missing("value", "type")
	}

	switch ValueType(node.Type) {
	case ValueNull:
		return NullValue(), nil
	case ValueBoolean:
		text := strings.TrimSpace(node.Text)
		if text == "" {
			return BoolValue(false), nil
		}
		b, err := strconv.ParseBool(text)
		if err != nil {
			return CellValue{}, parseErrorf("invalid boolean %q", node.Text)
		}
		return BoolValue(b), nil
	case ValueNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(node.Text), 64)
		if err != nil {
			return CellValue{}, parseErrorf("invalid number %q", node.Text)
		}
		return NumberValue(n), nil
	case ValueString:
		return StringValue(node.Text), nil
	default:
		return CellValue{}, parseErrorf("unknown value type %q", node.Type)
	}
}
