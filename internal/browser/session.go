package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	loginURL = "https://www.linkedin.com/login"

	// userAgent mirrors a desktop Chrome so the login page renders its
	// standard form.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// authPollInterval is how often the post-login landmark is re-checked
	// within the auth timeout.
	authPollInterval = 500 * time.Millisecond
)

// ChallengeHook is invoked when an interactive verification step is detected
// during login. The hook must block until the challenge has been resolved
// externally (a resolvable signal, not console input) or return an error to
// abort authentication.
type ChallengeHook func(ctx context.Context, sessionID string) error

// Options configures session acquisition.
type Options struct {
	Email       string
	Password    string
	Headless    bool
	Debug       bool
	DebugDir    string
	AuthTimeout time.Duration
	NavTimeout  time.Duration
	OnChallenge ChallengeHook
	Logger      zerolog.Logger
}

// Session is one authenticated browsing context. It is not safe for
// concurrent use; the pipeline issues strictly sequential operations
// against it.
type Session struct {
	ID            string
	Authenticated bool

	opts    Options
	ctx     context.Context
	cancels []context.CancelFunc
	release sync.Once
	log     zerolog.Logger
}

// Acquire starts a Chrome instance and returns an unauthenticated session.
// Missing credentials fail here, before any browser resource is allocated.
func Acquire(parent context.Context, opts Options) (*Session, error) {
	if opts.Email == "" || opts.Password == "" {
		return nil, &AuthError{Message: "credentials not configured"}
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = 15 * time.Second
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(p))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	sess := &Session{
		ID:      uuid.NewString()[:8],
		opts:    opts,
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
		log:     opts.Logger,
	}

	// Starting the browser eagerly surfaces missing-Chrome failures at
	// acquisition time instead of on first navigation.
	if err := sess.run(opts.NavTimeout, chromedp.Navigate("about:blank")); err != nil {
		sess.Release()
		return nil, &AuthError{Message: "failed to start browser", Cause: err}
	}

	if opts.Debug && opts.DebugDir != "" {
		if err := os.MkdirAll(opts.DebugDir, 0755); err != nil {
			sess.log.Warn().Err(err).Msg("could not create debug directory")
		}
	}
	sess.Capture("browser_init")

	return sess, nil
}

// run executes chromedp actions against the session with a bounded timeout.
func (s *Session) run(timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// Login submits credentials and waits for the post-login landmark. Three
// outcomes: authenticated, challenge detected (suspends on the configured
// hook), or AuthError on timeout.
func (s *Session) Login() error {
	s.log.Info().Str("session", s.ID).Msg("navigating to login page")

	err := s.run(s.opts.NavTimeout,
		chromedp.Navigate(loginURL),
		chromedp.WaitVisible(`#username`, chromedp.ByQuery),
		chromedp.SetValue(`#username`, s.opts.Email, chromedp.ByQuery),
		chromedp.SetValue(`#password`, s.opts.Password, chromedp.ByQuery),
	)
	if err != nil {
		s.Capture("login_error")
		return &AuthError{Message: "login form not reachable", Cause: err}
	}
	s.Capture("login_page")

	if err := s.run(s.opts.NavTimeout, chromedp.Click(`button[type="submit"]`, chromedp.ByQuery)); err != nil {
		s.Capture("login_error")
		return &AuthError{Message: "could not submit login form", Cause: err}
	}

	switch outcome := s.awaitLandmark(s.opts.AuthTimeout); outcome {
	case landmarkFound:
		s.Authenticated = true
		s.Capture("after_login")
		s.log.Info().Str("session", s.ID).Msg("logged in")
		return nil

	case landmarkChallenge:
		s.Capture("security_verification")
		s.log.Warn().Str("session", s.ID).Msg("security challenge detected, waiting for manual intervention")
		if s.opts.OnChallenge == nil {
			return &ChallengeError{SessionID: s.ID}
		}
		if err := s.opts.OnChallenge(s.ctx, s.ID); err != nil {
			return &ChallengeError{SessionID: s.ID, Cause: err}
		}
		// Resume: the landmark should be reachable once the challenge
		// was resolved externally.
		if s.awaitLandmark(s.opts.AuthTimeout) != landmarkFound {
			s.Capture("login_failure")
			return &AuthError{Message: "landmark not found after challenge acknowledgement"}
		}
		s.Authenticated = true
		s.Capture("after_login")
		return nil

	default:
		s.Capture("login_failure")
		return &AuthError{Message: "post-login landmark not found within timeout"}
	}
}

type landmarkOutcome int

const (
	landmarkMissing landmarkOutcome = iota
	landmarkFound
	landmarkChallenge
)

// landmarkScript classifies the current page: the global nav is the
// post-login landmark; checkpoint URLs and verification text indicate an
// interactive challenge.
const landmarkScript = `(() => {
	if (document.querySelector('#global-nav')) return 'ok';
	const href = location.href || '';
	if (href.includes('/checkpoint/challenge/')) return 'challenge';
	const text = ((document.body && document.body.innerText) || '').toLowerCase();
	if (text.includes('security verification') || text.includes('let’s do a quick verification')) return 'challenge';
	return '';
})()`

// awaitLandmark polls the page classification until the timeout elapses.
func (s *Session) awaitLandmark(timeout time.Duration) landmarkOutcome {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var state string
		if err := s.run(authPollInterval*4, chromedp.Evaluate(landmarkScript, &state)); err == nil {
			switch state {
			case "ok":
				return landmarkFound
			case "challenge":
				return landmarkChallenge
			}
		}
		time.Sleep(authPollInterval)
	}
	return landmarkMissing
}

// Navigate loads a URL and waits for the document body to be ready.
func (s *Session) Navigate(url string) error {
	err := s.run(s.opts.NavTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
	if err != nil {
		s.Capture("navigation_error")
		return &NavigationError{URL: url, Message: "page did not load", Cause: err}
	}
	return nil
}

// CurrentURL returns the location of the rendered page.
func (s *Session) CurrentURL() (string, error) {
	var href string
	if err := s.run(s.opts.NavTimeout, chromedp.Evaluate(`location.href`, &href)); err != nil {
		return "", err
	}
	return href, nil
}

// Eval runs a script against the rendered page, decoding the result into res.
// Pass nil when the script result is not needed.
func (s *Session) Eval(script string, res any) error {
	return s.run(s.opts.NavTimeout, chromedp.Evaluate(script, res))
}

// WaitVisible blocks until the selector matches a visible element or the
// timeout elapses.
func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	return s.run(timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// HTML snapshots the rendered DOM. Handles derived from a snapshot are only
// valid until the next navigation.
func (s *Session) HTML() (string, error) {
	var html string
	if err := s.run(s.opts.NavTimeout, chromedp.OuterHTML(`html`, &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to snapshot page: %w", err)
	}
	return html, nil
}

// Capture writes a labeled screenshot to the debug directory. It is a no-op
// unless debug mode is enabled, and never affects control flow.
func (s *Session) Capture(label string) {
	if !s.opts.Debug || s.opts.DebugDir == "" {
		return
	}
	var buf []byte
	if err := s.run(s.opts.NavTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		s.log.Debug().Err(err).Str("label", label).Msg("screenshot capture failed")
		return
	}
	path := ArtifactPath(s.opts.DebugDir, s.ID, label)
	if err := os.WriteFile(path, buf, 0644); err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("could not write debug artifact")
	}
}

// Release shuts the browser down. Idempotent and safe on every exit path.
func (s *Session) Release() {
	s.release.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
		s.log.Info().Str("session", s.ID).Msg("browser closed")
	})
}

// ArtifactPath builds the debug artifact filename for a session and label.
func ArtifactPath(dir, sessionID, label string) string {
	label = strings.ReplaceAll(label, string(filepath.Separator), "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", sessionID, label))
}
