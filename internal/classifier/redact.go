// internal/classifier/redact.go
package classifier

import "regexp"

// Redaction patterns, applied in order: email addresses, long digit runs
// (account/phone numbers), SSN-like dashed digits. The placeholder itself
// matches none of them, which makes Redact idempotent.
var (
	emailPattern     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	longDigitPattern = regexp.MustCompile(`\d{10,}`)
	ssnPattern       = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

const redactedPlaceholder = "[REDACTED]"

// Redact scrubs PII from a human-readable string. It is total and pure:
// never fails, never mutates, and re-redacting redacted text is a no-op.
func Redact(text string) string {
	out := emailPattern.ReplaceAllString(text, redactedPlaceholder)
	out = longDigitPattern.ReplaceAllString(out, redactedPlaceholder)
	out = ssnPattern.ReplaceAllString(out, redactedPlaceholder)
	return out
}
