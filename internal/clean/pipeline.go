// Package clean implements the in-memory cleaning pipeline for imported
// contact tables: canonical column unification, the optional per-stage
// transformations, locale-aware phone normalization and first-seen-wins
// deduplication.
//
// The pipeline is a pure function of (table, option set): it never mutates
// its input, performs no I/O, and holds no state between invocations, so it
// is safe to run concurrently over independent tables.
package clean

import (
	"errors"

	"contactcleaner/internal/table"
)

// ErrEmptyInput is returned when the pipeline is handed a table with zero
// headers or zero rows. The caller should surface the upload as invalid
// rather than run stages on it.
var ErrEmptyInput = errors.New("clean: table has no headers or no rows")

// Stage identifies one independently toggleable transformation.
type Stage string

// The eight stage identifiers, matching the form values the original contact
// cleaner accepted.
const (
	StageTrimWhitespace        Stage = "trim_whitespace"
	StageDropMissingNames      Stage = "drop_missing_names"
	StageStandardizeTitle      Stage = "standardize_title"
	StageRemoveEmailDuplicates Stage = "remove_email_duplicates"
	StageRemovePhoneDuplicates Stage = "remove_phone_duplicates"
	StageNormalizePhones       Stage = "normalize_phones"
	StageLowercaseEmails       Stage = "lowercase_emails"
	StageFilterColumns         Stage = "filter_columns"
)

// stageOrder is the fixed execution sequence. The set a caller supplies only
// selects stages; it never reorders them. Later stages may depend on columns
// or values earlier ones produce.
var stageOrder = []struct {
	stage Stage
	apply func(*table.Table)
}{
	{StageTrimWhitespace, trimWhitespace},
	{StageDropMissingNames, dropMissingNames},
	{StageStandardizeTitle, standardizeTitle},
	{StageRemoveEmailDuplicates, func(t *table.Table) { dedupRows(t, "Email", true) }},
	{StageRemovePhoneDuplicates, func(t *table.Table) { dedupRows(t, PhoneColumn, false) }},
	{StageNormalizePhones, normalizePhones},
	{StageLowercaseEmails, lowercaseEmails},
	{StageFilterColumns, filterColumns},
}

// Options is the set of requested stages.
type Options map[Stage]bool

// ParseOptions builds an option set from raw identifier strings, ignoring
// anything that is not a known stage.
func ParseOptions(names []string) Options {
	opts := make(Options, len(names))
	for _, n := range names {
		s := Stage(n)
		if knownStage(s) {
			opts[s] = true
		}
	}
	return opts
}

// Stages returns the requested stages in execution order.
func (o Options) Stages() []Stage {
	var out []Stage
	for _, entry := range stageOrder {
		if o[entry.stage] {
			out = append(out, entry.stage)
		}
	}
	return out
}

func knownStage(s Stage) bool {
	for _, entry := range stageOrder {
		if entry.stage == s {
			return true
		}
	}
	return false
}

// Clean applies the cleaning pipeline to a copy of t and returns the result.
// Column unification runs unconditionally first; the requested stages then
// run in the fixed order. A stage whose required column is absent is silently
// skipped. ErrEmptyInput is returned for a table with no headers or no rows.
func Clean(t table.Table, opts Options) (table.Table, error) {
	if t.IsEmpty() {
		return table.Table{}, ErrEmptyInput
	}

	work := t.Clone()
	work.NormalizeShape()

	unifyPhone(&work)
	unifyLocation(&work)

	for _, entry := range stageOrder {
		if opts[entry.stage] {
			entry.apply(&work)
		}
	}

	return work, nil
}
