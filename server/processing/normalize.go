package processing

import (
	"regexp"
	"strings"
)

// EmptyResultText replaces any model output that is empty after cleanup.
const EmptyResultText = "نتیجه‌ای از مدل دریافت نشد."

var (
	lineBreaks = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u0085", "\n",
		"\u2028", "\n",
		"\u2029", "\n",
	)
	trailingSpace = regexp.MustCompile(`[\t\f\v\p{Zs}]+\n`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans model output for display: CRLF, CR, NEL and the Unicode
// line and paragraph separators become LF, trailing
// whitespace is removed from every line, three or more consecutive line breaks
// collapse to two, and the whole text is trimmed. Empty results become
// EmptyResultText. Normalize is idempotent.
func Normalize(s string) string {
	s = lineBreaks.Replace(s)
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return EmptyResultText
	}
	return s
}

// NormalizeValue is Normalize for untyped values, e.g. a decoded JSON field.
// Anything that is not a string yields EmptyResultText.
func NormalizeValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return Normalize(s)
	case *string:
		if s != nil {
			return Normalize(*s)
		}
	}
	return EmptyResultText
}
