package codec

import (
	"sheetxml/internal/document"

	"google.golang.org/api/sheets/v4"
)

// EncodeFormat renders a cell format as a <style> node. A nil format yields no
// node. Background, text format and padding are emitted only when set;
// alignment and wrap strategy are always emitted, empty when unset.
func EncodeFormat(format *sheets.CellFormat) *document.Style {
	if format == nil {
		return nil
	}

	style := &document.Style{
		BackgroundColor: encodeColor(format.BackgroundColor),
		Alignment: document.Alignment{
			Vertical:   format.VerticalAlignment,
			Horizontal: format.HorizontalAlignment,
		},
		WrapStrategy: format.WrapStrategy,
	}

	if tf := format.TextFormat; tf != nil {
		style.TextFormat = &document.TextFormat{
			FontFamily:    tf.FontFamily,
			FontSize:      tf.FontSize,
			FontColor:     encodeColor(tf.ForegroundColor),
			Italic:        document.PresenceOf(tf.Italic),
			Bold:          document.PresenceOf(tf.Bold),
			Underline:     document.PresenceOf(tf.Underline),
			Strikethrough: document.PresenceOf(tf.Strikethrough),
		}
	}

	if p := format.Padding; p != nil {
		style.Padding = &document.Padding{
			Top:    p.Top,
			Left:   p.Left,
			Bottom: p.Bottom,
			Right:  p.Right,
		}
	}

	return style
}

// DecodeFormat rebuilds a cell format from a <style> node. A missing node
// yields nil. Otherwise every sub-object is populated, with zero values for
// absent nodes: the mutation replaces the whole format, so unspecified fields
// are reset rather than kept.
func DecodeFormat(style *document.Style) *sheets.CellFormat {
	if style == nil {
		return nil
	}

	format := &sheets.CellFormat{
		BackgroundColor: decodeColor(style.BackgroundColor),
		WrapStrategy:    style.WrapStrategy,
		TextFormat:      &sheets.TextFormat{ForegroundColor: &sheets.Color{}},
		Padding:         &sheets.Padding{},
	}

	if tf := style.TextFormat; tf != nil {
		format.TextFormat = &sheets.TextFormat{
			FontFamily:      tf.FontFamily,
			FontSize:        tf.FontSize,
			ForegroundColor: decodeColor(tf.FontColor),
			Italic:          tf.Italic.Bool(),
			Bold:            tf.Bold.Bool(),
			Underline:       tf.Underline.Bool(),
			Strikethrough:   tf.Strikethrough.Bool(),
		}
	}

	if p := style.Padding; p != nil {
		format.Padding = &sheets.Padding{
			Top:    p.Top,
			Left:   p.Left,
			Bottom: p.Bottom,
			Right:  p.Right,
		}
	}

	if style.Alignment.Horizontal != "" {
		format.HorizontalAlignment = style.Alignment.Horizontal
	}
	if style.Alignment.Vertical != "" {
		format.VerticalAlignment = style.Alignment.Vertical
	}

	return format
}

func encodeColor(c *sheets.Color) *document.Color {
	if c == nil {
		return nil
	}
	return &document.Color{Red: c.Red, Green: c.Green, Blue: c.Blue, Alpha: c.Alpha}
}

func decodeColor(c *document.Color) *sheets.Color {
	if c == nil {
		return &sheets.Color{}
	}
	return &sheets.Color{Red: c.Red, Green: c.Green, Blue: c.Blue, Alpha: c.Alpha}
}
