package normalize

import (
	"regexp"
	"strings"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	spaceRuns  = regexp.MustCompile(` +`)
	hashtagRe  = regexp.MustCompile(`#\w+`)
)

// CleanWhitespace collapses runs of blank lines to a single blank line and
// runs of spaces to one space.
func CleanWhitespace(text string) string {
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Hashtags returns the hashtags in the text in order of first appearance,
// without duplicates.
func Hashtags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, tag := range hashtagRe.FindAllString(text, -1) {
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return tags
}
