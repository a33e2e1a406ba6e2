// pkg/driver/chromedriver/chromedriver.go
//
// Package chromedriver implements the page.Page contract on top of chromedp.
// Locators are resolved at call time by a JavaScript step walk, so they stay
// valid while a virtualized widget recycles DOM nodes underneath them.
package chromedriver

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

const defaultTestIDAttribute = "data-testid"

// Page adapts a chromedp browser tab to the harness's page contract.
type Page struct {
	// ctx is the chromedp target context the tab was created with.
	ctx        context.Context
	logger     *zap.Logger
	testIDAttr string
}

// Option customizes a Page.
type Option func(*Page)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Page) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTestIDAttribute overrides the attribute used for test-identifier
// lookups (default data-testid).
func WithTestIDAttribute(attr string) Option {
	return func(p *Page) {
		if attr != "" {
			p.testIDAttr = attr
		}
	}
}

// New wraps an existing chromedp context. The caller owns the browser
// lifecycle; the driver never launches or closes anything.
func New(chromedpCtx context.Context, opts ...Option) *Page {
	p := &Page{
		ctx:        chromedpCtx,
		logger:     zap.NewNop(),
		testIDAttr: defaultTestIDAttribute,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("chromedriver")
	return p
}

// Locator builds a lazy handle from a structural selector.
func (p *Page) Locator(selector string) page.Locator {
	return &locator{page: p, steps: []step{{Selector: selector, Index: -1}}}
}

// LocatorByTestID builds a lazy handle from a test-identifier attribute
// value.
func (p *Page) LocatorByTestID(value string) page.Locator {
	return p.Locator(`[` + p.testIDAttr + `="` + cssAttrEscape(value) + `"]`)
}

// run executes chromedp actions against the tab, honoring the caller's
// context alongside the tab's own lifecycle.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := combineContext(p.ctx, ctx)
	defer cancel()
	if timeout > 0 {
		var tcancel context.CancelFunc
		opCtx, tcancel = context.WithTimeout(opCtx, timeout)
		defer tcancel()
	}
	return chromedp.Run(opCtx, actions...)
}

// combineContext derives an operation context from the tab context (keeping
// chromedp's target values and lifecycle) while also observing the caller's
// cancellation.
func combineContext(tabCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(tabCtx)

	go func() {
		select {
		case <-callerCtx.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
