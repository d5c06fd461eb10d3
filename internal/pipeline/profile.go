package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const activitySuffix = "recent-activity/all/"

// profileNameSelectors locate the display name on a profile page.
var profileNameSelectors = []string{
	"h1.text-heading-xlarge",
	".pv-text-details__left-panel h1",
}

// ActivityURL normalizes a profile URL to its recent-activity page.
func ActivityURL(profileURL string) string {
	if strings.Contains(profileURL, "recent-activity/all") {
		return profileURL
	}
	if !strings.HasSuffix(profileURL, "/") {
		profileURL += "/"
	}
	return profileURL + activitySuffix
}

// BaseProfileURL strips the activity suffix back off a rendered page URL.
func BaseProfileURL(currentURL string) string {
	if idx := strings.Index(currentURL, "/recent-activity"); idx >= 0 {
		return currentURL[:idx]
	}
	return strings.TrimSuffix(currentURL, "/")
}

// ProfileName extracts the display name from the rendered page, falling back
// to a title-cased slug from the URL.
func ProfileName(doc *goquery.Document, profileURL string) string {
	for _, selector := range profileNameSelectors {
		if name := strings.TrimSpace(doc.Find(selector).First().Text()); name != "" {
			return name
		}
	}
	return ProfileNameFromURL(profileURL)
}

// ProfileNameFromURL derives a readable name from the /in/<slug> URL form.
func ProfileNameFromURL(profileURL string) string {
	idx := strings.Index(profileURL, "/in/")
	if idx < 0 {
		return "Unknown Profile"
	}
	slug := profileURL[idx+len("/in/"):]
	if cut := strings.IndexByte(slug, '/'); cut >= 0 {
		slug = slug[:cut]
	}
	if slug == "" {
		return "Unknown Profile"
	}

	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
