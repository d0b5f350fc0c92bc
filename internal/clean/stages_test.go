package clean

import (
	"reflect"
	"testing"

	"contactcleaner/internal/table"
)

// ----------------------------------------------------------------------------
// Row filter stage Tests
// ----------------------------------------------------------------------------

func TestTrimWhitespace(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"  x ", "\ty\n"}},
	}
	trimWhitespace(&tbl)

	if tbl.Rows[0][0] != "x" || tbl.Rows[0][1] != "y" {
		t.Errorf("cells not trimmed: %v", tbl.Rows[0])
	}
}

func TestDropMissingNames(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"First Name", "Last Name", "Email"},
		Rows: [][]string{
			{"Alice", "Smith", "a@x.com"},
			{"", "Jones", "b@x.com"},
			{"Carol", "None", "c@x.com"},
			{"Dan", "  ", "d@x.com"},
			{"Eve", "Adams", "e@x.com"},
		},
	}
	dropMissingNames(&tbl)

	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[0][0] != "Alice" || tbl.Rows[1][0] != "Eve" {
		t.Errorf("wrong survivors, order not preserved: %v", tbl.Rows)
	}
}

func TestDropMissingNamesNoOpWithoutColumns(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"First Name", "Email"},
		Rows:    [][]string{{"", "a@x.com"}},
	}
	dropMissingNames(&tbl)

	if len(tbl.Rows) != 1 {
		t.Error("stage ran without both name columns present")
	}
}

// ----------------------------------------------------------------------------
// Title case Tests
// ----------------------------------------------------------------------------

func TestStandardizeTitle(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"Title"},
		Rows: [][]string{
			{"vp of sales"},
			{"SENIOR ENGINEER"},
			{"  account manager  "},
			{"None"},
			{""},
		},
	}
	standardizeTitle(&tbl)

	want := [][]string{
		{"Vp Of Sales"},
		{"Senior Engineer"},
		{"Account Manager"},
		{"None"},
		{""},
	}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("rows = %v, want %v", tbl.Rows, want)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "vp of sales", want: "Vp Of Sales"},
		{input: "o'brien", want: "O'brien"},
		{input: "sales-manager", want: "Sales-manager"},
		{input: "two  spaces", want: "Two  Spaces"},
		{input: "x", want: "X"},
	}

	for _, tt := range tests {
		if got := titleCase(tt.input); got != tt.want {
			t.Errorf("titleCase(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Dedup engine Tests
// ----------------------------------------------------------------------------

func TestDedupRowsEmail(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"Email", "Name"},
		Rows: [][]string{
			{"A@x.com", "first"},
			{"a@x.com", "second"},
			{"", "blank"},
			{"nan", "sentinel"},
			{"b@y.com", "third"},
		},
	}
	dedupRows(&tbl, "Email", true)

	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	// First-seen wins, relative order preserved, blank keys dropped.
	if tbl.Rows[0][1] != "first" || tbl.Rows[1][1] != "third" {
		t.Errorf("survivors = %v", tbl.Rows)
	}
}

func TestDedupRowsPhoneExactKey(t *testing.T) {
	tbl := table.Table{
		Headers: []string{PhoneColumn},
		Rows: [][]string{
			{"+14155552671"},
			{"+14155552671"},
			{"(415) 555-2671"},
		},
	}
	dedupRows(&tbl, PhoneColumn, false)

	// Exact-value key: differently formatted duplicates survive.
	if len(tbl.Rows) != 2 {
		t.Errorf("rows = %d, want 2: %v", len(tbl.Rows), tbl.Rows)
	}
}

func TestDedupRowsMissingColumnIsNoOp(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"Name"},
		Rows:    [][]string{{"a"}, {"a"}},
	}
	dedupRows(&tbl, "Email", true)

	if len(tbl.Rows) != 2 {
		t.Error("dedup ran without its key column")
	}
}

// ----------------------------------------------------------------------------
// Email lowercase Tests
// ----------------------------------------------------------------------------

func TestLowercaseEmails(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"Email"},
		Rows: [][]string{
			{"A@X.COM"},
			{" Mixed@Case.Org "},
			{"None"},
		},
	}
	lowercaseEmails(&tbl)

	want := [][]string{{"a@x.com"}, {"mixed@case.org"}, {"None"}}
	if !reflect.DeepEqual(tbl.Rows, want) {
		t.Errorf("rows = %v, want %v", tbl.Rows, want)
	}
}

// ----------------------------------------------------------------------------
// Column projection Tests
// ----------------------------------------------------------------------------

func TestFilterColumns(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"Extra", "Email", "First Name", "Internal ID"},
		Rows: [][]string{
			{"x", "a@x.com", "Alice", "1"},
			{"y", "b@y.com", "Bob", "2"},
		},
	}
	filterColumns(&tbl)

	// Allow-list order, not input order.
	if !reflect.DeepEqual(tbl.Headers, []string{"First Name", "Email"}) {
		t.Errorf("headers = %v, want [First Name Email]", tbl.Headers)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("filter_columns changed row count: %d", len(tbl.Rows))
	}
	if !reflect.DeepEqual(tbl.Rows[0], []string{"Alice", "a@x.com"}) {
		t.Errorf("row 0 = %v", tbl.Rows[0])
	}
}

func TestFilterColumnsNoAllowedPresent(t *testing.T) {
	tbl := table.Table{
		Headers: []string{"X", "Y"},
		Rows:    [][]string{{"1", "2"}},
	}
	filterColumns(&tbl)

	if !reflect.DeepEqual(tbl.Headers, []string{"X", "Y"}) {
		t.Errorf("projection with no allowed columns should be a no-op, got %v", tbl.Headers)
	}
}

// Every stage must leave each row exactly as wide as the header count.
func TestStagesPreserveRowWidth(t *testing.T) {
	base := table.Table{
		Headers: []string{"First Name", "Last Name", "Title", "Email", PhoneColumn},
		Rows: [][]string{
			{" Alice ", "Smith", "vp", "A@X.com", "(415) 555-2671"},
			{"Bob", "", "eng", "b@y.com", "555-1234"},
			{"Carol", "Reed", "", "A@x.com", "+14155552671"},
		},
	}

	stages := map[string]func(*table.Table){
		"trim_whitespace":         trimWhitespace,
		"drop_missing_names":      dropMissingNames,
		"standardize_title":       standardizeTitle,
		"remove_email_duplicates": func(t *table.Table) { dedupRows(t, "Email", true) },
		"remove_phone_duplicates": func(t *table.Table) { dedupRows(t, PhoneColumn, false) },
		"normalize_phones":        normalizePhones,
		"lowercase_emails":        lowercaseEmails,
		"filter_columns":          filterColumns,
	}

	for name, apply := range stages {
		t.Run(name, func(t *testing.T) {
			tbl := base.Clone()
			before := len(tbl.Rows)
			apply(&tbl)

			for i, row := range tbl.Rows {
				if len(row) != len(tbl.Headers) {
					t.Errorf("row %d has %d cells, headers %d", i, len(row), len(tbl.Headers))
				}
			}
			if len(tbl.Rows) > before {
				t.Errorf("stage increased row count: %d -> %d", before, len(tbl.Rows))
			}
		})
	}
}
