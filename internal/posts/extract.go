package posts

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/emiller/postharvest/internal/normalize"
	"github.com/emiller/postharvest/internal/types"
)

// Expander re-runs truncation expansion scoped to one post container and
// returns a refreshed selection for it, or nil when no fresh handle is
// available. Nil Expander means extraction runs on a static snapshot.
type Expander interface {
	Expand(containerSelector string, index int) *goquery.Selection
}

// Extractor pulls the raw field values out of a classified-original post.
// Every method is best-effort and never fails; absence is represented by
// sentinel values.
type Extractor struct {
	Exp Expander
}

// dateSelectors are tried in order for the post timestamp text.
var dateSelectors = []string{
	".feed-shared-actor__sub-description",
	".update-components-actor__sub-description",
	"time",
	".feed-shared-actor__creation-time",
	".update-components-actor__meta-link",
	".update-components-text-view time",
	".artdeco-entity-lockup__caption",
}

// timeIndicators must appear in a candidate string for it to be accepted as
// date text.
var timeIndicators = []string{
	"ago", "hour", "day", "min", "sec", "just now", "week", "month", "yr",
}

var (
	reactionsPattern = regexp.MustCompile(`(?i)(\d[\d,.]*[km]?)\s*(?:likes?|reactions?)`)
	commentsPattern  = regexp.MustCompile(`(?i)(\d[\d,.]*[km]?)\s*comments?`)
	repostsPattern   = regexp.MustCompile(`(?i)(\d[\d,.]*[km]?)\s*(?:reposts?|shares?)`)
)

// socialCountsSelectors locate the aggregate engagement container.
var socialCountsSelectors = []string{
	".social-details-social-counts",
	".update-components-social-activity",
	".social-action-counts",
}

// Per-category selector lists for the independent-count fallback.
var (
	reactionCountSelectors = []string{
		".social-details-social-counts__reactions-count",
		".social-details-social-counts__social-proof-text",
		".social-action-counts__count",
	}
	commentCountSelectors = []string{
		".social-details-social-counts__comments",
		".comments-comment-box__comment-count",
		".social-action-counts__comments",
	}
	repostCountSelectors = []string{
		".social-details-social-counts__reshares",
		".social-action-counts__reshares",
	}
)

// Text extracts the post body. A container-scoped expansion pass runs first
// when an Expander is configured, then the longest non-empty text across the
// content selectors wins; truncated variants are shorter, so longer is
// assumed more complete. Whitespace is normalized on the way out.
func (e *Extractor) Text(p RawPost) string {
	if e.Exp != nil {
		if fresh := e.Exp.Expand(p.Selector, p.Index); fresh != nil && fresh.Length() > 0 {
			p.Sel = fresh
		}
	}

	text, ok := firstSuccess(p.Sel, []strategy[string]{longestContentText, genericLeafText})
	if !ok {
		return ""
	}
	return normalize.CleanWhitespace(text)
}

func longestContentText(sel *goquery.Selection) (string, bool) {
	longest := ""
	for _, selector := range contentSelectors {
		sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); len(text) > len(longest) {
				longest = text
			}
		})
	}
	return longest, longest != ""
}

// genericLeafText is the broad structural fallback: text-bearing leaf nodes
// that typically carry post bodies.
func genericLeafText(sel *goquery.Selection) (string, bool) {
	var parts []string
	sel.Find("p, span.break-words, div.break-words").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n"), true
}

// DateText extracts the raw timestamp text, accepting only strings that
// contain a recognized time-unit indicator.
func (e *Extractor) DateText(p RawPost) string {
	text, ok := firstSuccess(p.Sel, []strategy[string]{dateBySelectors, dateByTimeElement, dateByScan})
	if !ok {
		return normalize.DateSentinel
	}
	return text
}

func dateBySelectors(sel *goquery.Selection) (string, bool) {
	for _, selector := range dateSelectors {
		found := ""
		sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if text := strings.TrimSpace(s.Text()); text != "" && hasTimeIndicator(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

// dateByTimeElement accepts any non-empty <time> element text; compact feed
// forms like "2h" carry no indicator word.
func dateByTimeElement(sel *goquery.Selection) (string, bool) {
	found := ""
	sel.Find("time").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := strings.TrimSpace(s.Text()); text != "" {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}

// dateByScan falls back to scanning generic text nodes for the same
// indicators.
func dateByScan(sel *goquery.Selection) (string, bool) {
	found := ""
	sel.Find("span, div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && len(text) < 40 && hasTimeIndicator(text) {
			found = text
			return false
		}
		return true
	})
	return found, found != ""
}

func hasTimeIndicator(text string) bool {
	lower := strings.ToLower(text)
	for _, indicator := range timeIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Engagement extracts reaction, comment and repost counts. Three strategies
// run in order, stopping at the first that yields any non-zero count; a post
// with no visible engagement legitimately reports zeros.
func (e *Extractor) Engagement(p RawPost) types.Engagement {
	eng, _ := firstSuccess(p.Sel, []strategy[types.Engagement]{
		aggregateCounts,
		categoryCounts,
		keywordScan,
	})
	return eng
}

// aggregateCounts parses the combined text of the social counts container.
func aggregateCounts(sel *goquery.Selection) (types.Engagement, bool) {
	for _, selector := range socialCountsSelectors {
		container := sel.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		eng := matchEngagement(container.Text())
		return eng, eng.Total() > 0
	}
	return types.Engagement{}, false
}

// categoryCounts searches dedicated per-category count elements, keeping the
// maximum seen per category to defend against duplicated badges.
func categoryCounts(sel *goquery.Selection) (types.Engagement, bool) {
	eng := types.Engagement{
		Reactions: maxCount(sel, reactionCountSelectors),
		Comments:  maxCount(sel, commentCountSelectors),
		Reposts:   maxCount(sel, repostCountSelectors),
	}
	return eng, eng.Total() > 0
}

func maxCount(sel *goquery.Selection, selectors []string) int {
	best := 0
	for _, selector := range selectors {
		sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if n := normalize.ParseCount(strings.TrimSpace(s.Text())); n > best {
				best = n
			}
		})
	}
	return best
}

// keywordScan is the last resort: pattern-match the whole container text.
func keywordScan(sel *goquery.Selection) (types.Engagement, bool) {
	eng := matchEngagement(sel.Text())
	return eng, eng.Total() > 0
}

func matchEngagement(text string) types.Engagement {
	eng := types.Engagement{}
	if m := reactionsPattern.FindStringSubmatch(text); m != nil {
		eng.Reactions = normalize.ParseCount(m[1])
	}
	if m := commentsPattern.FindStringSubmatch(text); m != nil {
		eng.Comments = normalize.ParseCount(m[1])
	}
	if m := repostsPattern.FindStringSubmatch(text); m != nil {
		eng.Reposts = normalize.ParseCount(m[1])
	}
	return eng
}
