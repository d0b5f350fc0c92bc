package clean

import (
	"strings"

	"contactcleaner/internal/table"
)

// phoneKeywords mark a header as a phone-bearing source column when any of
// them appears in the name, case-insensitively.
var phoneKeywords = []string{"phone", "mobile", "cell", "tel"}

// locationColumns are consulted in this fixed order when building Location.
var locationColumns = []string{"City", "State", "Country"}

// PhoneColumn and LocationColumn are the canonical headers the unifier
// synthesizes before any optional stage runs.
const (
	PhoneColumn    = "Phone Number"
	LocationColumn = "Location"
)

// phoneSourceColumns returns the indexes, in header order, of columns whose
// name contains a phone keyword.
func phoneSourceColumns(t table.Table) []int {
	var cols []int
	for i, h := range t.Headers {
		lower := strings.ToLower(h)
		for _, kw := range phoneKeywords {
			if strings.Contains(lower, kw) {
				cols = append(cols, i)
				break
			}
		}
	}
	return cols
}

// unifyPhone fills the canonical "Phone Number" column from whatever phone-like
// source columns the table carries. Per row, the first candidate in header
// order with a usable value wins; source columns are left untouched. A table
// with no phone-like columns is returned unchanged.
func unifyPhone(t *table.Table) {
	candidates := phoneSourceColumns(*t)
	if len(candidates) == 0 {
		return
	}

	phoneIdx := t.EnsureColumn(PhoneColumn)
	for _, row := range t.Rows {
		for _, c := range candidates {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if !table.IsBlank(v) {
				row[phoneIdx] = v
				break
			}
		}
	}
}

// unifyLocation builds the canonical "Location" column by joining the usable
// values of City, State and Country (in that order) with ", ". Blank parts
// are omitted entirely, so a missing middle field never doubles the
// separator. A table with none of the three columns is returned unchanged.
func unifyLocation(t *table.Table) {
	var present []int
	for _, name := range locationColumns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			present = append(present, idx)
		}
	}
	if len(present) == 0 {
		return
	}

	locIdx := t.EnsureColumn(LocationColumn)
	for _, row := range t.Rows {
		var parts []string
		for _, c := range present {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if !table.IsBlank(v) {
				parts = append(parts, v)
			}
		}
		row[locIdx] = strings.Join(parts, ", ")
	}
}
