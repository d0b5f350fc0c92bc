// Package table defines the in-memory table that every cleaning component
// operates on: an ordered header row plus ordered data rows of string cells.
//
// Cells carry the messy reality of contact exports: values like "None", "NULL"
// or "nan" mean "no value" just as much as the empty string does. IsBlank is
// the single presence test for that, so no stage re-derives its own idea of
// emptiness.
package table

import (
	"encoding/csv"
	"io"
	"strings"
)

// nullSentinels are string values that conventionally mean "no value" in
// exported contact data. Matching is exact (post-trim).
var nullSentinels = map[string]struct{}{
	"":     {},
	"None": {},
	"NULL": {},
	"nan":  {},
	"NaN":  {},
	"<NA>": {},
}

// IsBlank reports whether a cell holds no usable value: empty after trimming,
// or one of the null sentinels.
func IsBlank(cell string) bool {
	_, ok := nullSentinels[strings.TrimSpace(cell)]
	return ok
}

// Canonicalize maps null-sentinel cells to the empty string and leaves every
// other value untouched. Ingestion applies this once so downstream stages see
// one canonical "absent" representation.
func Canonicalize(cell string) string {
	if IsBlank(cell) {
		return ""
	}
	return cell
}

// Table is an ordered sequence of unique header names plus ordered rows of
// string cells positionally aligned to the headers. Header names are
// case-sensitive, exact-match identifiers. Rows have no identity beyond
// position; filtering stages must preserve relative order.
type Table struct {
	Headers []string
	Rows    [][]string
}

// IsEmpty reports whether the table has zero headers or zero rows.
// An empty table is the ingestion result for invalid input and must not be
// fed to the cleaning pipeline.
func (t Table) IsEmpty() bool {
	return len(t.Headers) == 0 || len(t.Rows) == 0
}

// Shape returns the row and column counts, for before/after reporting.
func (t Table) Shape() (rows, cols int) {
	return len(t.Rows), len(t.Headers)
}

// Clone returns a deep copy. Pipeline stages work on a clone so the caller's
// table is never mutated mid-run.
func (t Table) Clone() Table {
	out := Table{
		Headers: make([]string, len(t.Headers)),
		Rows:    make([][]string, len(t.Rows)),
	}
	copy(out.Headers, t.Headers)
	for i, row := range t.Rows {
		out.Rows[i] = make([]string, len(row))
		copy(out.Rows[i], row)
	}
	return out
}

// ColumnIndex returns the position of the named header, or -1 if absent.
// Matching is exact and case-sensitive.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the index of the named column, appending a new header
// and back-filling every row with an empty cell when it does not exist yet.
func (t *Table) EnsureColumn(name string) int {
	if idx := t.ColumnIndex(name); idx >= 0 {
		return idx
	}
	t.Headers = append(t.Headers, name)
	idx := len(t.Headers) - 1
	for i := range t.Rows {
		for len(t.Rows[i]) <= idx {
			t.Rows[i] = append(t.Rows[i], "")
		}
	}
	return idx
}

// NormalizeShape repairs ragged rows so every row has exactly len(Headers)
// cells: short rows are padded with empty cells, long rows truncated.
func (t *Table) NormalizeShape() {
	want := len(t.Headers)
	for i, row := range t.Rows {
		switch {
		case len(row) < want:
			padded := make([]string, want)
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > want:
			t.Rows[i] = row[:want]
		}
	}
}

// IsEmptyRow reports whether every cell in the row is empty after trimming.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV serializes the table as comma-delimited CSV: one header row, one
// data row per record, RFC 4180 quoting handled by encoding/csv.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Head returns a table holding at most n leading rows, sharing no storage
// with the receiver. Used for preview display.
func (t Table) Head(n int) Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := t.Clone()
	out.Rows = out.Rows[:n]
	return out
}
