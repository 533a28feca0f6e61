package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxInputLen = 10000

var dangerousTags = []string{"<script", "<iframe", "<object", "<embed", "<form"}

var (
	reTagRemainder = map[string]*regexp.Regexp{}
	reJSAttributes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)onload\s*=\s*["'][^"']*["']`),
		regexp.MustCompile(`(?i)onerror\s*=\s*["'][^"']*["']`),
		regexp.MustCompile(`(?i)onclick\s*=\s*["'][^"']*["']`),
		regexp.MustCompile(`(?i)onmouseover\s*=\s*["'][^"']*["']`),
		regexp.MustCompile(`(?i)onfocus\s*=\s*["'][^"']*["']`),
	}
)

func init() {
	for _, tag := range dangerousTags {
		reTagRemainder[tag] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(tag) + `[^>]*>`)
	}
}

// Sanitize strips dangerous markup and caps the input length. It is applied
// to free-text fields before validation and prompt assembly.
func Sanitize(input string) string {
	cleaned := input
	for _, tag := range dangerousTags {
		cleaned = reTagRemainder[tag].ReplaceAllString(cleaned, "")
	}
	for _, re := range reJSAttributes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	if len(cleaned) > maxInputLen {
		// Back up to a rune boundary so the cut never produces invalid UTF-8.
		cut := maxInputLen
		for cut > 0 && !utf8.RuneStart(cleaned[cut]) {
			cut--
		}
		cleaned = cleaned[:cut] + "..."
	}

	return strings.TrimSpace(cleaned)
}
