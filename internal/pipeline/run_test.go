package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiller/postharvest/internal/materialize"
	"github.com/emiller/postharvest/internal/types"
)

// fakeBrowser serves canned HTML per URL and records every navigation.
type fakeBrowser struct {
	pages      map[string]string
	navigated  []string
	currentURL string
	navErr     error
}

func (f *fakeBrowser) Navigate(url string) error {
	f.navigated = append(f.navigated, url)
	if f.navErr != nil {
		return f.navErr
	}
	f.currentURL = url
	return nil
}

func (f *fakeBrowser) CurrentURL() (string, error)                        { return f.currentURL, nil }
func (f *fakeBrowser) Eval(script string, res any) error                  { return nil }
func (f *fakeBrowser) WaitVisible(selector string, d time.Duration) error { return nil }
func (f *fakeBrowser) Capture(label string)                               {}

func (f *fakeBrowser) HTML() (string, error) {
	html, ok := f.pages[f.currentURL]
	if !ok {
		return "<html><body></body></html>", nil
	}
	return html, nil
}

var fixedNow = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)

func newOrchestrator(b Browser) *Orchestrator {
	return &Orchestrator{
		Browser:  b,
		Mat:      &materialize.Materializer{MaxScrolls: 1, Settle: 0, Log: zerolog.Nop()},
		Delay:    NoDelay{},
		MaxPosts: 5,
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return fixedNow },
	}
}

// feedPage is the rendered activity page from the end-to-end scenario: one
// reshare and two original posts.
const feedPage = `<html><body>
	<h1 class="text-heading-xlarge">Jane Doe</h1>
	<div class="feed-shared-update-v2">liked a post from someone else
		<div class="update-components-text">borrowed content</div>
	</div>
	<div class="feed-shared-update-v2">
		<span class="feed-shared-actor__sub-description">2 hours ago</span>
		<div class="update-components-text">Hello #AI #Tech</div>
		<div class="social-details-social-counts">42 reactions · 5 comments</div>
	</div>
	<div class="feed-shared-update-v2">
		<span class="feed-shared-actor__sub-description">3 days ago</span>
		<div class="update-components-text">World</div>
		<div class="social-details-social-counts">0 reactions</div>
	</div>
</body></html>`

func TestScrape_EndToEnd(t *testing.T) {
	profile := "https://www.linkedin.com/in/jane-doe"
	activity := ActivityURL(profile)
	b := &fakeBrowser{pages: map[string]string{activity: feedPage}}

	result := newOrchestrator(b).Scrape([]string{profile}, "abc12345")

	require.Len(t, result.Statuses, 1)
	assert.Equal(t, types.StateDone, result.Statuses[0].State)
	require.Len(t, result.Records, 2, "the reshare must be excluded")

	first := result.Records[0]
	assert.Equal(t, "Jane Doe", first.ProfileName)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", first.ProfileURL)
	assert.Equal(t, "Hello #AI #Tech", first.PostText)
	assert.Equal(t, []string{"#AI", "#Tech"}, first.Hashtags)
	assert.Equal(t, 2, first.HashtagCount)
	assert.Equal(t, 42, first.Reactions)
	assert.Equal(t, 5, first.Comments)
	assert.Equal(t, 47, first.TotalEngage)
	assert.Equal(t, "2025-06-02 07:30:00", first.PostDate)
	assert.Equal(t, "abc12345", first.SessionID)

	second := result.Records[1]
	assert.Equal(t, "World", second.PostText)
	assert.Equal(t, 0, second.TotalEngage)
}

func TestScrape_FailedProfileDoesNotAbortRun(t *testing.T) {
	good := "https://www.linkedin.com/in/good"
	bad := "https://www.linkedin.com/in/bad"
	b := &fakeBrowser{pages: map[string]string{ActivityURL(good): feedPage}}

	// The bad profile renders a page with no post containers at all.
	b.pages[ActivityURL(bad)] = "<html><body><p>nothing here</p></body></html>"

	result := newOrchestrator(b).Scrape([]string{bad, good}, "abc12345")

	require.Len(t, result.Statuses, 2)
	assert.Equal(t, types.StateFailed, result.Statuses[0].State)
	assert.Error(t, result.Statuses[0].Err)
	assert.Equal(t, 0, result.Statuses[0].Records)
	assert.Equal(t, types.StateDone, result.Statuses[1].State)
	assert.Len(t, result.Records, 2)
}

func TestScrape_NavigationFailure(t *testing.T) {
	b := &fakeBrowser{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}

	result := newOrchestrator(b).Scrape([]string{"https://www.linkedin.com/in/gone"}, "s1")

	require.Len(t, result.Statuses, 1)
	assert.True(t, result.Statuses[0].Failed())
	assert.Empty(t, result.Records)
}

func TestScrape_MaxPostsLimit(t *testing.T) {
	profile := "https://www.linkedin.com/in/jane-doe"
	b := &fakeBrowser{pages: map[string]string{ActivityURL(profile): feedPage}}

	o := newOrchestrator(b)
	o.MaxPosts = 1
	result := o.Scrape([]string{profile}, "s1")

	assert.Len(t, result.Records, 1)
	assert.Equal(t, "Hello #AI #Tech", result.Records[0].PostText)
}

func TestScrape_ProfilesAreSequential(t *testing.T) {
	a := "https://www.linkedin.com/in/a"
	c := "https://www.linkedin.com/in/c"
	b := &fakeBrowser{pages: map[string]string{
		ActivityURL(a): feedPage,
		ActivityURL(c): feedPage,
	}}

	result := newOrchestrator(b).Scrape([]string{a, c}, "s1")

	require.Len(t, b.navigated, 2)
	assert.Equal(t, ActivityURL(a), b.navigated[0])
	assert.Equal(t, ActivityURL(c), b.navigated[1])
	assert.Len(t, result.Records, 4)
}

func TestUniformDelay_Bounds(t *testing.T) {
	d := UniformDelay{Min: 10 * time.Millisecond, Max: 15 * time.Millisecond}
	for i := 0; i < 100; i++ {
		v := d.Next()
		assert.GreaterOrEqual(t, v, 10*time.Millisecond)
		assert.Less(t, v, 15*time.Millisecond)
	}

	assert.Equal(t, time.Duration(0), NoDelay{}.Next())
	assert.Equal(t, time.Second, UniformDelay{Min: time.Second, Max: time.Second}.Next())
}

func TestActivityURL(t *testing.T) {
	assert.Equal(t,
		"https://www.linkedin.com/in/jane/recent-activity/all/",
		ActivityURL("https://www.linkedin.com/in/jane"))
	assert.Equal(t,
		"https://www.linkedin.com/in/jane/recent-activity/all/",
		ActivityURL("https://www.linkedin.com/in/jane/"))
	// Already an activity URL stays untouched.
	assert.Equal(t,
		"https://www.linkedin.com/in/jane/recent-activity/all/",
		ActivityURL("https://www.linkedin.com/in/jane/recent-activity/all/"))
}

func TestBaseProfileURL(t *testing.T) {
	assert.Equal(t,
		"https://www.linkedin.com/in/jane",
		BaseProfileURL("https://www.linkedin.com/in/jane/recent-activity/all/"))
}

func TestProfileNameFromURL(t *testing.T) {
	assert.Equal(t, "Jane Doe", ProfileNameFromURL("https://www.linkedin.com/in/jane-doe/"))
	assert.Equal(t, "Jane", ProfileNameFromURL("https://www.linkedin.com/in/jane"))
	assert.Equal(t, "Unknown Profile", ProfileNameFromURL("https://www.linkedin.com/feed/"))
}
