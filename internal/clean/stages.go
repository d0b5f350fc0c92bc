package clean

import (
	"strings"
	"unicode"

	"contactcleaner/internal/table"
)

// AllowedColumns is the canonical projection allow-list, in output order.
var AllowedColumns = []string{
	"First Name", "Last Name", "Title", "Company", "Email", PhoneColumn, LocationColumn,
}

// trimWhitespace replaces every cell in every row with its trimmed form.
func trimWhitespace(t *table.Table) {
	for _, row := range t.Rows {
		for i, cell := range row {
			row[i] = strings.TrimSpace(cell)
		}
	}
}

// dropMissingNames keeps only rows where both First Name and Last Name hold a
// usable value. No-op when either column is absent.
func dropMissingNames(t *table.Table) {
	firstIdx := t.ColumnIndex("First Name")
	lastIdx := t.ColumnIndex("Last Name")
	if firstIdx < 0 || lastIdx < 0 {
		return
	}

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if table.IsBlank(row[firstIdx]) || table.IsBlank(row[lastIdx]) {
			continue
		}
		kept = append(kept, row)
	}
	t.Rows = kept
}

// standardizeTitle rewrites usable Title values to title case. No-op when the
// Title column is absent.
func standardizeTitle(t *table.Table) {
	idx := t.ColumnIndex("Title")
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[idx])
		if table.IsBlank(v) {
			continue
		}
		row[idx] = titleCase(v)
	}
}

// titleCase capitalizes the first letter of each whitespace-delimited word and
// lowercases the rest, preserving the original whitespace. Word boundaries are
// whitespace only, so "vp of sales" becomes "Vp Of Sales" and an apostrophe
// does not start a new word.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			atWordStart = true
			b.WriteRune(r)
		case atWordStart:
			b.WriteRune(unicode.ToUpper(r))
			atWordStart = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// dedupRows keeps the first row for each distinct key in the named column,
// preserving the relative order of survivors. Rows whose key cell is blank
// are dropped. When fold is true the key comparison is case-insensitive.
// No-op when the column is absent.
func dedupRows(t *table.Table, column string, fold bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return
	}

	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		key := strings.TrimSpace(row[idx])
		if table.IsBlank(key) {
			continue
		}
		if fold {
			key = strings.ToLower(key)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
}

// normalizePhones applies the phone normalizer to every Phone Number cell.
// No-op when the column is absent.
func normalizePhones(t *table.Table) {
	idx := t.ColumnIndex(PhoneColumn)
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		row[idx] = NormalizePhone(row[idx])
	}
}

// lowercaseEmails lowercases usable Email values. No-op when the column is
// absent.
func lowercaseEmails(t *table.Table) {
	idx := t.ColumnIndex("Email")
	if idx < 0 {
		return
	}
	for _, row := range t.Rows {
		v := strings.TrimSpace(row[idx])
		if table.IsBlank(v) {
			continue
		}
		row[idx] = strings.ToLower(v)
	}
}

// filterColumns projects the table onto the canonical allow-list, keeping
// only columns that are present and reordering them to the allow-list's fixed
// order. Row count never changes. No-op when no allowed column is present.
func filterColumns(t *table.Table) {
	var headers []string
	var indexes []int
	for _, name := range AllowedColumns {
		if idx := t.ColumnIndex(name); idx >= 0 {
			headers = append(headers, name)
			indexes = append(indexes, idx)
		}
	}
	if len(headers) == 0 {
		return
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		projected := make([]string, len(indexes))
		for j, idx := range indexes {
			if idx < len(row) {
				projected[j] = row[idx]
			}
		}
		rows[i] = projected
	}
	t.Headers = headers
	t.Rows = rows
}
