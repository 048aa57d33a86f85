package columns

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/xuri/excelize/v2"
)

func TestLabelOf(t *testing.T) {
	testCases := []struct {
		offset   int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{675, "YZ"},
		{676, "ZA"},
		{701, "ZZ"},
	}

	for _, tc := range testCases {
		label, err := LabelOf(tc.offset)
		if err != nil {
			t.Fatalf("LabelOf(%d) returned error: %v", tc.offset, err)
		}
		if label != tc.expected {
			t.Errorf("LabelOf(%d): expected %s, got %s", tc.offset, tc.expected, label)
		}
	}
}

func TestLabelOfOutOfRange(t *testing.T) {
	for _, offset := range []int{-1, Count, 702, 5000} {
		if _, err := LabelOf(offset); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("LabelOf(%d): expected ErrOutOfRange, got %v", offset, err)
		}
	}
}

func TestOffsetOf(t *testing.T) {
	t.Run("KnownLabels", func(t *testing.T) {
		testCases := map[string]int{"A": 0, "Z": 25, "AA": 26, "BA": 52, "ZZ": 701}
		for label, expected := range testCases {
			offset, err := OffsetOf(label)
			if err != nil {
				t.Fatalf("OffsetOf(%s) returned error: %v", label, err)
			}
			if offset != expected {
				t.Errorf("OffsetOf(%s): expected %d, got %d", label, expected, offset)
			}
		}
	})

	t.Run("TooWide", func(t *testing.T) {
		for _, label := range []string{"AAA", "ZZZ", "ABCD"} {
			if _, err := OffsetOf(label); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("OffsetOf(%s): expected ErrOutOfRange, got %v", label, err)
			}
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, label := range []string{"", "a", "A1", "Ä", " B"} {
			if _, err := OffsetOf(label); !errors.Is(err, ErrInvalidLabel) {
				t.Errorf("OffsetOf(%q): expected ErrInvalidLabel, got %v", label, err)
			}
		}
	})
}

// TestLabelsMatchExcelize cross-checks the table against excelize's own column naming.
func TestLabelsMatchExcelize(t *testing.T) {
	for offset := 0; offset < Count; offset++ {
		expected, err := excelize.ColumnNumberToName(offset + 1)
		if err != nil {
			t.Fatalf("excelize failed for column %d: %v", offset+1, err)
		}
		label, err := LabelOf(offset)
		if err != nil {
			t.Fatalf("LabelOf(%d) returned error: %v", offset, err)
		}
		if label != expected {
			t.Fatalf("offset %d: expected %s, got %s", offset, expected, label)
		}
	}
}

func TestColumnTableProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("offsetOf inverts labelOf", prop.ForAll(
		func(n int) bool {
			label, err := LabelOf(n)
			if err != nil {
				return false
			}
			back, err := OffsetOf(label)
			return err == nil && back == n
		},
		gen.IntRange(0, Count-1),
	))

	properties.Property("labels strictly increase by length then lexicographically", prop.ForAll(
		func(n int) bool {
			a, errA := LabelOf(n)
			b, errB := LabelOf(n + 1)
			if errA != nil || errB != nil {
				return false
			}
			if len(a) != len(b) {
				return len(a) < len(b)
			}
			return a < b
		},
		gen.IntRange(0, Count-2),
	))

	properties.Property("labels only contain A-Z", prop.ForAll(
		func(n int) bool {
			label, err := LabelOf(n)
			if err != nil || len(label) == 0 || len(label) > 2 {
				return false
			}
			for _, r := range label {
				if r < 'A' || r > 'Z' {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, Count-1),
	))

	properties.TestingRun(t)
}
