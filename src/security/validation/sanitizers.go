// backend/src/security/validation/sanitizers.go
package validation

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/username/pricedash/backend/src/models"
)

var strictHTMLPolicy *bluemonday.Policy

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // Removes all HTML tags
}

// SanitizeText removes all HTML tags and attributes from an input string
// so uploaded values cannot inject markup into the dashboard.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// SanitizeForFormulaInjection prepends a single quote if the string starts with a formula character.
// This prevents CSV Injection (Formula Injection) in Excel/Sheets.
func SanitizeForFormulaInjection(s string) string {
	// Check the trimmed string for the trigger, but keep the original formatting.
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}

	switch trimmed[0] {
	case '=', '+', '@', '\t', '\r':
		return "'" + s
	case '-':
		// Negative numbers such as a price_change of -11.11 stay numeric.
		if isNumeric(trimmed) {
			return s
		}
		return "'" + s
	}
	return s
}

func isNumeric(s string) bool {
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '-' && i == 0, r == '.':
		default:
			return false
		}
	}
	return seenDigit
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// SanitizeResult returns a copy of result whose record keys and values
// have been stripped of markup and unprintable characters.
func SanitizeResult(result *models.AnalysisResult) *models.AnalysisResult {
	if result == nil {
		return nil
	}
	clean := *result

	clean.Schema = make(models.FieldSchema, len(result.Schema))
	for i, name := range result.Schema {
		clean.Schema[i] = sanitizeValue(name)
	}

	clean.Records = make([]*models.DerivedRecord, len(result.Records))
	for i, rec := range result.Records {
		out := models.NewRecord()
		for _, key := range rec.Keys() {
			out.Set(sanitizeValue(key), sanitizeValue(rec.Value(key)))
		}
		clean.Records[i] = out
	}
	return &clean
}

// sanitizeValue drops markup but keeps text such as "Barnes & Noble"
// verbatim. JSON encoding protects the transport, so entities are undone.
func sanitizeValue(s string) string {
	return html.UnescapeString(SanitizeText(StripUnprintable(s)))
}
