package posts

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Class is the outcome of post classification.
type Class int

const (
	// NotOriginal covers reshares, reactions and any container we could
	// not positively identify as authored content. Exclusion is the safe
	// default: downstream consumers assume every surviving record is
	// original.
	NotOriginal Class = iota
	// Original is the profile's own authored content.
	Original
)

// activityPhrases open the leading text of reshare/reaction containers.
var activityPhrases = []string{
	"liked", "commented on", "replied", "reposted",
	"shared", "celebrates", "mentioned in", "follows",
}

// contentSelectors mark authored post bodies across DOM versions.
var contentSelectors = []string{
	".feed-shared-update-v2__description",
	".feed-shared-text",
	".update-components-text",
	".feed-shared-text-view",
	".update-components-update-v2__commentary",
}

// leadingWindow is how far into the container text activity phrases are
// searched for.
const leadingWindow = 50

// Classify decides whether a container is the profile's own authored post.
func Classify(p RawPost) Class {
	text := strings.ToLower(strings.TrimSpace(p.Sel.Text()))

	head := text
	if len(head) > leadingWindow {
		head = head[:leadingWindow]
	}
	for _, phrase := range activityPhrases {
		if strings.HasPrefix(text, phrase) || strings.Contains(head, "\n"+phrase) {
			return NotOriginal
		}
	}

	for _, selector := range contentSelectors {
		if hasNonEmptyText(p, selector) {
			return Original
		}
	}

	return NotOriginal
}

func hasNonEmptyText(p RawPost, selector string) bool {
	found := false
	p.Sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "" {
			found = true
			return false
		}
		return true
	})
	return found
}
