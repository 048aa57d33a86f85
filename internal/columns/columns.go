package columns

import (
	"errors"
	"fmt"
)

// Count is the number of columns addressable by the table: every one and two
// letter label, A through ZZ.
const Count = 26 + 26*26

var (
	// ErrOutOfRange is returned for offsets or labels beyond ZZ.
	ErrOutOfRange = errors.New("column out of range")
	// ErrInvalidLabel is returned for labels containing anything but A-Z.
	ErrInvalidLabel = errors.New("invalid column label")
)

var (
	labels  = buildLabels()
	offsets = buildOffsets(labels)
)

// buildLabels enumerates labels in bijective base-26: A..Z, AA..AZ, BA..ZZ.
func buildLabels() []string {
	out := make([]string, 0, Count)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	for first := 'A'; first <= 'Z'; first++ {
		for second := 'A'; second <= 'Z'; second++ {
			out = append(out, string([]rune{first, second}))
		}
	}
	return out
}

func buildOffsets(labels []string) map[string]int {
	m := make(map[string]int, len(labels))
	for i, l := range labels {
		m[l] = i
	}
	return m
}

// LabelOf returns the spreadsheet label for a zero-based column offset.
func LabelOf(offset int) (string, error) {
	if offset < 0 || offset >= Count {
		return "", fmt.Errorf("%w: offset %d", ErrOutOfRange, offset)
	}
	return labels[offset], nil
}

// OffsetOf returns the zero-based column offset for a label such as "A" or "BC".
func OffsetOf(label string) (int, error) {
	if label == "" {
		return 0, fmt.Errorf("%w: empty label", ErrInvalidLabel)
	}
	for _, r := range label {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
		}
	}
	offset, ok := offsets[label]
	if !ok {
		return 0, fmt.Errorf("%w: label %q", ErrOutOfRange, label)
	}
	return offset, nil
}
