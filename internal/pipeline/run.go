// Package pipeline sequences the full extraction run: session acquisition,
// per-profile navigation, materialization, post location and field
// extraction, record assembly and dataset persistence. Profiles are
// processed strictly sequentially with randomized pacing between them;
// failures are contained at the narrowest scope that preserves forward
// progress.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/emiller/postharvest/internal/browser"
	"github.com/emiller/postharvest/internal/config"
	"github.com/emiller/postharvest/internal/dataset"
	"github.com/emiller/postharvest/internal/materialize"
	"github.com/emiller/postharvest/internal/posts"
	"github.com/emiller/postharvest/internal/types"
)

// Browser is the slice of the session the orchestrator drives. Handles
// obtained from one snapshot must not be retained across a navigation.
type Browser interface {
	Navigate(url string) error
	CurrentURL() (string, error)
	Eval(script string, res any) error
	WaitVisible(selector string, timeout time.Duration) error
	HTML() (string, error)
	Capture(label string)
}

// Result is what a run hands back: every extractable record plus a
// per-profile status list. Partial success is the expected common case.
type Result struct {
	SessionID string
	Records   []types.PostRecord
	Statuses  []types.ProfileStatus
}

// Orchestrator drives one session through a list of profiles.
type Orchestrator struct {
	Browser  Browser
	Mat      *materialize.Materializer
	Delay    DelayPolicy
	MaxPosts int
	Log      zerolog.Logger

	// Now is the clock used for record timestamps; injectable in tests.
	Now func() time.Time
}

// contentWait bounds the post-navigation wait for post containers.
const contentWait = 10 * time.Second

// Scrape processes the profiles in order. A failed profile contributes zero
// records and the run continues with the next one.
func (o *Orchestrator) Scrape(profiles []string, sessionID string) *Result {
	result := &Result{SessionID: sessionID}

	for i, profileURL := range profiles {
		if i > 0 {
			pause := o.Delay.Next()
			o.Log.Info().Dur("pause", pause).Msg("pacing before next profile")
			time.Sleep(pause)
		}

		records, status := o.scrapeProfile(profileURL, sessionID)
		result.Records = append(result.Records, records...)
		result.Statuses = append(result.Statuses, status)

		if status.Failed() {
			o.Log.Warn().Str("profile", profileURL).Err(status.Err).Msg("profile failed")
		} else {
			o.Log.Info().Str("profile", profileURL).Int("records", status.Records).Msg("profile done")
		}
	}

	return result
}

// scrapeProfile walks one profile through the state machine. Navigation and
// snapshot failures are fatal for the profile; everything later is per-post.
func (o *Orchestrator) scrapeProfile(profileURL, sessionID string) ([]types.PostRecord, types.ProfileStatus) {
	status := types.ProfileStatus{URL: profileURL, State: types.StateNotStarted}

	activityURL := ActivityURL(profileURL)
	o.Log.Info().Str("url", activityURL).Msg("navigating to activity page")
	if err := o.Browser.Navigate(activityURL); err != nil {
		status.State = types.StateFailed
		status.Err = err
		return nil, status
	}

	currentURL, err := o.Browser.CurrentURL()
	if err == nil && !strings.Contains(currentURL, "recent-activity") {
		o.Browser.Capture("wrong_page")
		status.State = types.StateFailed
		status.Err = &browser.NavigationError{URL: activityURL, Message: "redirected away from activity page"}
		return nil, status
	}
	if currentURL == "" {
		currentURL = activityURL
	}
	o.Browser.Capture("profile_page")
	status.State = types.StateNavigated

	// Best-effort wait for the first containers; the snapshot below is the
	// final authority.
	if err := o.Browser.WaitVisible(posts.ContainerQuery(), contentWait); err != nil {
		o.Log.Debug().Err(err).Msg("no post container became visible in time")
	}

	o.Mat.Prepare(o.Browser)
	status.State = types.StateMaterialized

	html, err := o.Browser.HTML()
	if err != nil {
		status.State = types.StateFailed
		status.Err = fmt.Errorf("could not snapshot rendered page: %w", err)
		return nil, status
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		status.State = types.StateFailed
		status.Err = fmt.Errorf("could not parse rendered page: %w", err)
		return nil, status
	}

	located := posts.Locate(doc)
	if len(located) == 0 {
		o.Browser.Capture("no_posts_found")
		status.State = types.StateFailed
		status.Err = &browser.NavigationError{URL: activityURL, Message: "no post containers found"}
		return nil, status
	}
	o.Log.Info().Int("containers", len(located)).Msg("located candidate posts")

	profileName := ProfileName(doc, currentURL)
	baseURL := BaseProfileURL(currentURL)
	extractor := &posts.Extractor{Exp: &liveExpander{browser: o.Browser, mat: o.Mat}}

	var records []types.PostRecord
	for _, p := range located {
		o.scrollIntoView(p)

		if posts.Classify(p) != posts.Original {
			o.Log.Debug().Int("index", p.Index).Msg("skipping non-original container")
			continue
		}

		text := extractor.Text(p)
		rawDate := extractor.DateText(p)
		eng := extractor.Engagement(p)
		records = append(records, types.NewPostRecord(profileName, baseURL, text, rawDate, eng, o.now(), sessionID))
		o.Log.Debug().Int("index", p.Index).Int("length", len(text)).Str("date", rawDate).Msg("extracted post")

		if o.MaxPosts > 0 && len(records) >= o.MaxPosts {
			o.Log.Info().Int("max", o.MaxPosts).Msg("reached post limit for profile")
			break
		}
	}
	status.State = types.StateExtracted

	status.Records = len(records)
	status.State = types.StateDone
	return records, status
}

func (o *Orchestrator) scrollIntoView(p posts.RawPost) {
	script := fmt.Sprintf(
		`(() => { const el = document.querySelectorAll(%q)[%d]; if (el) el.scrollIntoView({block: 'center'}); })()`,
		p.Selector, p.Index)
	if err := o.Browser.Eval(script, nil); err != nil {
		o.Log.Debug().Err(err).Int("index", p.Index).Msg("scroll to post failed")
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// liveExpander implements the field extractor's local expansion pass against
// the live session: expand within the container, then re-snapshot and
// return a fresh handle for the same container.
type liveExpander struct {
	browser Browser
	mat     *materialize.Materializer
}

func (l *liveExpander) Expand(containerSelector string, index int) *goquery.Selection {
	l.mat.ExpandWithin(l.browser, containerSelector, index)

	html, err := l.browser.HTML()
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc.Find(containerSelector).Eq(index)
}

// Run wires the real session, materializer and dataset writer together and
// executes a full run: acquire, authenticate, scrape every profile, persist
// both dataset views. The browser is released on every exit path.
func Run(ctx context.Context, cfg config.Config, onChallenge browser.ChallengeHook, log zerolog.Logger) (*Result, error) {
	sess, err := browser.Acquire(ctx, browser.Options{
		Email:       cfg.Email,
		Password:    cfg.Password,
		Headless:    cfg.Headless,
		Debug:       cfg.Debug,
		DebugDir:    cfg.DebugDir,
		AuthTimeout: cfg.AuthTimeout,
		NavTimeout:  cfg.NavTimeout,
		OnChallenge: onChallenge,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	if err := sess.Login(); err != nil {
		return nil, err
	}

	mat := materialize.New(log)
	mat.MaxScrolls = cfg.MaxScrolls

	o := &Orchestrator{
		Browser:  sess,
		Mat:      mat,
		Delay:    UniformDelay{Min: cfg.DelayMin, Max: cfg.DelayMax},
		MaxPosts: cfg.MaxPosts,
		Log:      log,
	}
	result := o.Scrape(cfg.Profiles, sess.ID)

	if len(result.Records) > 0 {
		writer := dataset.NewWriter(cfg.DataDir, log)
		if _, err := writer.Write(result.Records, sess.ID); err != nil {
			return result, err
		}
	} else {
		log.Warn().Msg("no original posts were extracted")
	}

	return result, nil
}
