package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// countPattern matches the first numeric token in an engagement string:
// suffixed decimals ("1.2K", "3M"), plain integers and thousands separators
// ("1,234"). The suffixed form must come first so "1.2K" is not read as "1".
var countPattern = regexp.MustCompile(`(\d*\.?\d+[KkMm])|(\d+,?\d*)`)

// ParseCount parses engagement count text like "25 comments" or
// "1.2K reactions" into an integer. Unparseable text yields 0.
func ParseCount(text string) int {
	if text == "" {
		return 0
	}

	match := countPattern.FindString(text)
	if match == "" {
		return 0
	}

	token := strings.ReplaceAll(strings.TrimSpace(match), ",", "")
	lower := strings.ToLower(token)

	multiplier := 1.0
	switch {
	case strings.Contains(lower, "k"):
		multiplier = 1_000
		lower = strings.ReplaceAll(lower, "k", "")
	case strings.Contains(lower, "m"):
		multiplier = 1_000_000
		lower = strings.ReplaceAll(lower, "m", "")
	}

	value, err := strconv.ParseFloat(lower, 64)
	if err != nil {
		return 0
	}
	return int(value * multiplier)
}
