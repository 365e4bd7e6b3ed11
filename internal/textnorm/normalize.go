package textnorm

import (
	"regexp"
	"strings"
)

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s]+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
	charFilter  = regexp.MustCompile(`[^a-z0-9\s.,!?;:]`)
	multiSpace  = regexp.MustCompile(`\s+`)
	wordPattern = regexp.MustCompile(`[a-z0-9]+`)
)

// Normalize cleans raw text into the canonical form the rest of the pipeline
// operates on. It never fails; non-text input comes back as an empty string.
// The transformation is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = charFilter.ReplaceAllString(text, "")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokenize splits normalized text into word tokens in document order,
// dropping tokens of length <= 2 and anything in the stop set.
func Tokenize(normalized string, stops StopSet) []string {
	words := wordPattern.FindAllString(normalized, -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if stops.Contains(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}
