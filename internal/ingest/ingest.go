// Package ingest turns raw uploaded bytes into a table.Table.
//
// Contact exports arrive in unknown encodings with unknown delimiters, so
// ingestion tries a fixed priority list of encodings and sniffs the delimiter
// from a leading sample before parsing. Every failure mode produces an empty
// Table rather than an error; the caller detects emptiness and treats the
// upload as invalid input.
package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"contactcleaner/internal/table"
)

// SniffSampleSize is how many bytes of the decoded text the delimiter
// heuristic examines.
const SniffSampleSize = 1024

// delimiterCandidates are tried in order; the best-scoring one wins.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode parses raw bytes into a Table. It returns an empty Table when no
// encoding decodes the content, the delimiter cannot be detected, or the
// result has no header row.
func Decode(raw []byte) table.Table {
	text, ok := decodeText(raw)
	if !ok {
		return table.Table{}
	}

	delim, ok := sniffDelimiter(text)
	if !ok {
		return table.Table{}
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil || len(records) == 0 {
		return table.Table{}
	}

	t := table.Table{Headers: records[0]}
	for _, row := range records[1:] {
		if table.IsEmptyRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	t.NormalizeShape()

	// One canonical "absent" representation from here on.
	for _, row := range t.Rows {
		for i, cell := range row {
			row[i] = table.Canonicalize(cell)
		}
	}

	return t
}

// decodeText tries the fixed encoding priority list: utf-8, utf-8-sig,
// latin1, cp1252. The first encoding that decodes without error wins.
func decodeText(raw []byte) (string, bool) {
	if bytes.HasPrefix(raw, utf8BOM) {
		trimmed := raw[len(utf8BOM):]
		if utf8.Valid(trimmed) {
			return string(trimmed), true
		}
	}
	if utf8.Valid(raw) {
		return string(raw), true
	}
	for _, dec := range []*encoding.Decoder{
		charmap.ISO8859_1.NewDecoder(),
		charmap.Windows1252.NewDecoder(),
	} {
		if out, err := dec.Bytes(raw); err == nil {
			return string(out), true
		}
	}
	return "", false
}

// sniffDelimiter picks the field delimiter from a fixed-size leading sample.
// A candidate scores by appearing on every sampled line with a consistent
// count; ties resolve in candidate order. Returns false when no candidate
// appears at all, which also covers single-column files.
func sniffDelimiter(text string) (rune, bool) {
	sample := text
	if len(sample) > SniffSampleSize {
		sample = sample[:SniffSampleSize]
	}

	lines := sampleLines(sample)
	if len(lines) == 0 {
		return 0, false
	}

	bestScore := 0
	var best rune
	for _, cand := range delimiterCandidates {
		score := scoreDelimiter(lines, cand)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if bestScore > 0 {
		return best, true
	}

	// No candidate was consistent across lines (quoted fields can hide the
	// delimiter). Fall back to whichever candidate the header line uses most.
	for _, cand := range delimiterCandidates {
		if n := strings.Count(lines[0], string(cand)); n > bestScore {
			bestScore = n
			best = cand
		}
	}
	if bestScore == 0 {
		return 0, false
	}
	return best, true
}

// sampleLines splits the sample into non-empty lines, discarding the final
// line when the sample was truncated mid-line.
func sampleLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	if len(raw) > 1 && len(sample) == SniffSampleSize {
		raw = raw[:len(raw)-1]
	}
	lines := raw[:0]
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// scoreDelimiter returns the per-line occurrence count when the candidate
// appears the same number of times on every line, weighted so higher counts
// beat lower ones. Zero means the candidate is inconsistent or absent.
func scoreDelimiter(lines []string, cand rune) int {
	first := strings.Count(lines[0], string(cand))
	if first == 0 {
		return 0
	}
	for _, l := range lines[1:] {
		if strings.Count(l, string(cand)) != first {
			return 0
		}
	}
	return first
}
