package clean

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"contactcleaner/internal/table"
)

// DefaultRegion is the fallback country context for phone numbers carrying no
// explicit country code.
const DefaultRegion = "US"

// phoneStripper removes the separator characters tolerated in phone input.
var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")

// NormalizePhone converts a single cell value to E.164 form when it parses as
// a valid phone number, and preserves the original value on every failure
// mode. Blank cells normalize to the empty string. The function never errors
// and is idempotent on values already in E.164 form.
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if table.IsBlank(trimmed) {
		return ""
	}

	working := phoneStripper.Replace(trimmed)
	if working == "" {
		// Stripping consumed everything; unparseable, pass through.
		return trimmed
	}
	if strings.HasPrefix(trimmed, "+") {
		working = "+" + working
	}

	parsed, err := phonenumbers.Parse(working, DefaultRegion)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return trimmed
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
