// Package types defines the durable data model shared across the pipeline:
// profile targets, extracted post records and per-profile run statuses.
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/emiller/postharvest/internal/normalize"
)

// timeLayout is the layout used for the post_date and scraped_at columns.
const timeLayout = "2006-01-02 15:04:05"

// Engagement holds the three per-post counters.
type Engagement struct {
	Reactions int
	Comments  int
	Reposts   int
}

// Total returns the summed engagement across all three counters.
func (e Engagement) Total() int {
	return e.Reactions + e.Comments + e.Reposts
}

// PostRecord is one extracted original post. Records are immutable after
// construction; total engagement always equals reactions+comments+reposts.
type PostRecord struct {
	ProfileName  string
	ProfileURL   string
	PostText     string
	PostDateText string
	PostDate     string
	DayOfWeek    string
	HourOfDay    string
	Reactions    int
	Comments     int
	Reposts      int
	TotalEngage  int
	Hashtags     []string
	HashtagCount int
	PostLength   int
	ScrapedAt    string
	SessionID    string
}

// NewPostRecord assembles a record from extracted raw values. The timestamp
// is parsed against scrapedAt; when unparseable the date-derived fields carry
// the "Unknown" sentinel and the record is still produced.
func NewPostRecord(profileName, profileURL, text, rawDate string, eng Engagement, scrapedAt time.Time, sessionID string) PostRecord {
	postDate := normalize.UnknownSentinel
	dayOfWeek := normalize.UnknownSentinel
	hourOfDay := normalize.UnknownSentinel
	if ts, ok := normalize.ParseTimestamp(rawDate, scrapedAt); ok {
		postDate = ts.Format(timeLayout)
		dayOfWeek = ts.Weekday().String()
		hourOfDay = ts.Format("15")
	}

	tags := normalize.Hashtags(text)

	return PostRecord{
		ProfileName:  profileName,
		ProfileURL:   profileURL,
		PostText:     text,
		PostDateText: rawDate,
		PostDate:     postDate,
		DayOfWeek:    dayOfWeek,
		HourOfDay:    hourOfDay,
		Reactions:    eng.Reactions,
		Comments:     eng.Comments,
		Reposts:      eng.Reposts,
		TotalEngage:  eng.Total(),
		Hashtags:     tags,
		HashtagCount: len(tags),
		PostLength:   len(text),
		ScrapedAt:    scrapedAt.Format(timeLayout),
		SessionID:    sessionID,
	}
}

// CSVHeader is the column order of both dataset files.
var CSVHeader = []string{
	"profile_name", "profile_url", "post_text", "post_date_text", "post_date",
	"day_of_week", "hour_of_day", "reactions", "comments", "reposts",
	"total_engagement", "hashtags", "hashtag_count", "post_length",
	"scraped_at", "session_id",
}

// CSVRow renders the record in CSVHeader column order.
func (r PostRecord) CSVRow() []string {
	return []string{
		r.ProfileName,
		r.ProfileURL,
		r.PostText,
		r.PostDateText,
		r.PostDate,
		r.DayOfWeek,
		r.HourOfDay,
		strconv.Itoa(r.Reactions),
		strconv.Itoa(r.Comments),
		strconv.Itoa(r.Reposts),
		strconv.Itoa(r.TotalEngage),
		strings.Join(r.Hashtags, ", "),
		strconv.Itoa(r.HashtagCount),
		strconv.Itoa(r.PostLength),
		r.ScrapedAt,
		r.SessionID,
	}
}

// DedupKey returns the (profile name, post text) pair that identifies a post
// across sessions in the cumulative dataset.
func (r PostRecord) DedupKey() string {
	return r.ProfileName + "\x00" + r.PostText
}
