// Package materialize forces lazily rendered page content into the DOM:
// progressive scrolling plus expansion of truncated ("see more") text
// regions. Everything here is best-effort; a page that refuses to expand is
// extracted as-is rather than failing the run.
package materialize

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Page is the slice of the browser session the materializer needs.
type Page interface {
	Eval(script string, res any) error
	Capture(label string)
}

// Defaults for the scroll budget.
const (
	DefaultMaxScrolls = 5
	DefaultSettle     = 2 * time.Second
	scrollIncrement   = 500
)

// Materializer prepares a loaded page for extraction. Calling Prepare twice
// on an already-materialized page is a near no-op.
type Materializer struct {
	MaxScrolls int
	Settle     time.Duration
	Log        zerolog.Logger
}

// New returns a Materializer with the default scroll budget.
func New(log zerolog.Logger) *Materializer {
	return &Materializer{MaxScrolls: DefaultMaxScrolls, Settle: DefaultSettle, Log: log}
}

// Prepare scrolls the page from the top in fixed increments, expanding
// truncated text on every pass and once more at the end. It never fails;
// every internal error is treated as "no effect".
func (m *Materializer) Prepare(page Page) {
	scrolls := m.MaxScrolls
	if scrolls <= 0 {
		scrolls = DefaultMaxScrolls
	}

	if err := page.Eval(`window.scrollTo(0, 0)`, nil); err != nil {
		m.Log.Debug().Err(err).Msg("scroll to top failed")
	}
	page.Capture("before_scrolling")

	for i := 0; i < scrolls; i++ {
		m.expand(page, documentRoot)
		if err := page.Eval(fmt.Sprintf(`window.scrollBy(0, %d)`, scrollIncrement), nil); err != nil {
			m.Log.Debug().Err(err).Int("scroll", i+1).Msg("scroll failed")
		}
		time.Sleep(m.Settle)
	}

	m.expand(page, documentRoot)
	page.Capture("after_scrolling")
}

// ExpandWithin runs the expansion routine scoped to the index-th element
// matching containerSelector. Used for the per-post expansion pass before
// text extraction.
func (m *Materializer) ExpandWithin(page Page, containerSelector string, index int) {
	m.expand(page, containerRoot(containerSelector, index))
}

func (m *Materializer) expand(page Page, rootExpr string) {
	var clicked int
	if err := page.Eval(expandScript(rootExpr), &clicked); err != nil {
		m.Log.Debug().Err(err).Msg("expansion pass failed")
		return
	}
	if clicked > 0 {
		m.Log.Debug().Int("clicked", clicked).Msg("expanded truncated text")
	}
}
