// Package posts finds candidate post containers on a rendered page,
// classifies them as original content or other activity, and extracts the
// raw text, date and engagement fields from each. All selection runs over a
// goquery snapshot of the materialized DOM; every extraction concern is an
// ordered list of independent strategies so selector churn stays contained
// here.
package posts

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxContainers caps location at the first rendered containers; only the
// most recent items are in scope.
const MaxContainers = 15

// containerSelectors are the known post container families across DOM
// versions. The first family with any matches wins; results are never merged
// across families.
var containerSelectors = []string{
	".feed-shared-update-v2",
	".occludable-update",
	".profile-creator-shared-feed-update__container",
}

// RawPost is an intermediate handle to one candidate container. It is valid
// only within the snapshot it was located in and is never persisted.
type RawPost struct {
	Index    int
	Selector string
	Sel      *goquery.Selection
}

// ContainerQuery returns all container families as one selector, for
// visibility waits against the live page.
func ContainerQuery() string {
	return strings.Join(containerSelectors, ", ")
}

// Locate returns the first MaxContainers candidate containers in render
// order, or nil when no selector family matches.
func Locate(doc *goquery.Document) []RawPost {
	for _, selector := range containerSelectors {
		matches := doc.Find(selector)
		if matches.Length() == 0 {
			continue
		}

		var found []RawPost
		matches.EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= MaxContainers {
				return false
			}
			found = append(found, RawPost{Index: i, Selector: selector, Sel: s})
			return true
		})
		return found
	}
	return nil
}
