package suppliers

import (
	"strings"

	"github.com/mawrid/mawrid/internal/validation"
)

// CanonicalPhone returns the 11 digit national form of a valid number and
// the trimmed input otherwise.
func CanonicalPhone(v string) string {
	if validation.IsValidPhone(v) {
		return validation.Digits(v)
	}
	return strings.TrimSpace(v)
}

// FormatPhone renders a national number as 01X-XXXX-XXXX. Numbers outside
// the national rule are returned unchanged.
func FormatPhone(v string) string {
	if !validation.IsValidPhone(v) {
		return v
	}
	d := validation.Digits(v)
	return d[:3] + "-" + d[3:7] + "-" + d[7:]
}

// TelLink returns the international dialing form used in tel: links.
func TelLink(v string) string {
	d := validation.Digits(v)
	switch {
	case d == "":
		return ""
	case validation.IsValidPhone(d):
		return "+20" + d[1:]
	default:
		return "+" + d
	}
}
