package posts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func locateOne(t *testing.T, html string) RawPost {
	t.Helper()
	found := Locate(docFromHTML(t, html))
	require.Len(t, found, 1)
	return found[0]
}

func TestLocate_FirstSelectorFamilyWins(t *testing.T) {
	html := `
		<html><body>
			<div class="feed-shared-update-v2">first family</div>
			<div class="occludable-update">second family</div>
		</body></html>
	`
	found := Locate(docFromHTML(t, html))
	require.Len(t, found, 1)
	assert.Equal(t, ".feed-shared-update-v2", found[0].Selector)
}

func TestLocate_FallsBackToNextFamily(t *testing.T) {
	html := `
		<html><body>
			<div class="occludable-update">a</div>
			<div class="occludable-update">b</div>
		</body></html>
	`
	found := Locate(docFromHTML(t, html))
	require.Len(t, found, 2)
	assert.Equal(t, ".occludable-update", found[0].Selector)
	assert.Equal(t, 0, found[0].Index)
	assert.Equal(t, 1, found[1].Index)
}

func TestLocate_CapsAtMaxContainers(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, `<div class="feed-shared-update-v2">post %d</div>`, i)
	}
	sb.WriteString("</body></html>")

	found := Locate(docFromHTML(t, sb.String()))
	assert.Len(t, found, MaxContainers)
}

func TestLocate_NoMatches(t *testing.T) {
	assert.Nil(t, Locate(docFromHTML(t, `<html><body><p>nothing</p></body></html>`)))
}

func TestClassify_ActivityPrefixIsNotOriginal(t *testing.T) {
	for _, lead := range []string{"liked a post", "commented on this", "reposted something", "shared an article", "celebrates a milestone"} {
		html := fmt.Sprintf(`<html><body><div class="feed-shared-update-v2">%s
			<div class="update-components-text">real content</div></div></body></html>`, lead)
		p := locateOne(t, html)
		assert.Equal(t, NotOriginal, Classify(p), "lead: %s", lead)
	}
}

func TestClassify_ContentWithoutActivityIsOriginal(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">Excited to announce our new release!</div>
	</div></body></html>`
	assert.Equal(t, Original, Classify(locateOne(t, html)))
}

func TestClassify_AmbiguousIsNotOriginal(t *testing.T) {
	// No activity phrase, but no content selector match either.
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="something-else">Some unrelated chrome</div>
	</div></body></html>`
	assert.Equal(t, NotOriginal, Classify(locateOne(t, html)))
}

func TestClassify_EmptyContentSelectorIsNotOriginal(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">   </div>
	</div></body></html>`
	assert.Equal(t, NotOriginal, Classify(locateOne(t, html)))
}

func TestExtractText_LongestContentWins(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="feed-shared-text">short version…</div>
		<div class="update-components-text">this is the much longer fully expanded version of the post</div>
	</div></body></html>`

	e := &Extractor{}
	text := e.Text(locateOne(t, html))
	assert.Equal(t, "this is the much longer fully expanded version of the post", text)
}

func TestExtractText_FallsBackToLeafNodes(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<p>paragraph content here</p>
		<span class="break-words">and a span</span>
	</div></body></html>`

	e := &Extractor{}
	text := e.Text(locateOne(t, html))
	assert.Contains(t, text, "paragraph content here")
	assert.Contains(t, text, "and a span")
}

func TestExtractText_NormalizesWhitespace(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">line one


line two    with   spaces</div>
	</div></body></html>`

	e := &Extractor{}
	text := e.Text(locateOne(t, html))
	assert.Equal(t, "line one\n\nline two with spaces", text)
}

func TestExtractText_EmptyPost(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2"></div></body></html>`
	e := &Extractor{}
	assert.Equal(t, "", e.Text(locateOne(t, html)))
}

// refreshExpander simulates the live expansion pass: the refreshed snapshot
// carries the full post text that only appears after clicking "see more".
type refreshExpander struct {
	t        *testing.T
	expanded string
	calls    int
}

func (r *refreshExpander) Expand(containerSelector string, index int) *goquery.Selection {
	r.calls++
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.expanded))
	require.NoError(r.t, err)
	return doc.Find(containerSelector).Eq(index)
}

func TestExtractText_UsesExpanderRefresh(t *testing.T) {
	truncated := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">truncated…</div>
	</div></body></html>`
	expanded := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">the full post text after expansion</div>
	</div></body></html>`

	exp := &refreshExpander{t: t, expanded: expanded}
	e := &Extractor{Exp: exp}

	text := e.Text(locateOne(t, truncated))
	assert.Equal(t, "the full post text after expansion", text)
	assert.Equal(t, 1, exp.calls)
}

func TestExtractDateText_SelectorWithIndicator(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<span class="feed-shared-actor__sub-description">3 days ago • Edited</span>
		<div class="update-components-text">content</div>
	</div></body></html>`

	e := &Extractor{}
	assert.Equal(t, "3 days ago • Edited", e.DateText(locateOne(t, html)))
}

func TestExtractDateText_CompactTimeElement(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<time>2h</time>
		<div class="update-components-text">content</div>
	</div></body></html>`

	e := &Extractor{}
	assert.Equal(t, "2h", e.DateText(locateOne(t, html)))
}

func TestExtractDateText_Sentinel(t *testing.T) {
	html := `<html><body><div class="feed-shared-update-v2">
		<div class="update-components-text">content with no date anywhere</div>
	</div></body></html>`

	e := &Extractor{}
	assert.Equal(t, "Unknown date", e.DateText(locateOne(t, html)))
}
