package posts

import "github.com/PuerkitoBio/goquery"

// strategy is one independent attempt at extracting a value from a post
// container. The bool reports whether the attempt produced anything usable.
type strategy[T any] func(*goquery.Selection) (T, bool)

// firstSuccess tries strategies in order and returns the first usable
// result. Adding or reordering strategies must not touch calling code.
func firstSuccess[T any](sel *goquery.Selection, strategies []strategy[T]) (T, bool) {
	for _, try := range strategies {
		if v, ok := try(sel); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
