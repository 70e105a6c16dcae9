package scrubber

import (
	"regexp"

	"ai-triage-be/internal/constant"
)

type pattern struct {
	re          *regexp.Regexp
	placeholder string
}

// Applied in order: national id first so 12-digit ids are not eaten by the
// phone pattern.
var fallbackPatterns = []pattern{
	{regexp.MustCompile(`\b\d{9}[VvXx]\b|\b\d{12}\b`), constant.PlaceholderNIC},
	{regexp.MustCompile(`(?:\+94|0)\s*\d{2}[\s-]?\d{3}[\s-]?\d{4}`), constant.PlaceholderPhone},
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), constant.PlaceholderEmail},
}

// RegexScrub redacts national ids, phone numbers and email addresses.
// Names and addresses are only caught by the local model path.
func RegexScrub(text string) string {
	for _, p := range fallbackPatterns {
		text = p.re.ReplaceAllLiteralString(text, p.placeholder)
	}
	return text
}
