// pkg/page/page.go
//
// Package page defines the narrow contract the grid harness needs from an
// underlying browser-automation layer. Drivers (chromedp, playwright) live in
// pkg/driver and satisfy these interfaces; the harness itself never talks to a
// browser directly.
package page

import (
	"context"
	"errors"
	"time"
)

// Box is an element's bounding rectangle in viewport coordinates.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Mid returns the midpoint of the box.
func (b Box) Mid() (x, y float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Locator is a lazy handle to zero or more elements. It describes how to find
// the element(s) at call time rather than caching a reference, which is what
// keeps it usable against virtualized widgets that continuously recycle DOM
// nodes. All read operations target the first match unless noted.
type Locator interface {
	// Locator narrows the handle to descendants matching the selector.
	Locator(selector string) Locator
	// Nth narrows the handle to the index-th current match (zero-based).
	Nth(index int) Locator
	// First is shorthand for Nth(0).
	First() Locator

	// Count reports how many elements currently match.
	Count(ctx context.Context) (int, error)
	// GetAttribute returns the attribute value, or "" when absent.
	GetAttribute(ctx context.Context, name string) (string, error)
	// TextContent returns the raw (un-normalized) text content.
	TextContent(ctx context.Context) (string, error)
	// InputValue returns the live value of an input, textarea or select.
	InputValue(ctx context.Context) (string, error)
	// IsChecked reports the live checked state of a checkbox or radio.
	IsChecked(ctx context.Context) (bool, error)
	// IsVisible reports whether the first match is rendered and visible.
	// Implementations apply their own short timeout.
	IsVisible(ctx context.Context) (bool, error)
	// BoundingBox returns the first match's rectangle, or an error when the
	// element is not rendered.
	BoundingBox(ctx context.Context) (*Box, error)

	Click(ctx context.Context) error
	DblClick(ctx context.Context) error
	// Fill replaces the element's value and fires input/change events.
	Fill(ctx context.Context, value string) error
	// Press dispatches a key or key combination (e.g. "Enter", "Control+c")
	// to the element after focusing it.
	Press(ctx context.Context, key string) error
	// DragTo simulates pointer-down on this element's midpoint, movement, and
	// pointer-up on the target's midpoint.
	DragTo(ctx context.Context, target Locator) error
	ScrollIntoView(ctx context.Context) error

	// String describes the locator for diagnostics.
	String() string
}

// Page is the root factory for locators on one browser page.
type Page interface {
	// Locator builds a handle from a structural (CSS) selector.
	Locator(selector string) Locator
	// LocatorByTestID builds a handle from a stable test-identifier attribute
	// value (conventionally data-testid).
	LocatorByTestID(value string) Locator
}

// ErrConditionNotMet is returned by Poll when the deadline expires before the
// condition holds. Callers wrap it into their own timeout error type.
var ErrConditionNotMet = errors.New("page: condition not met before deadline")

// Poll evaluates cond at the given interval until it returns true, the
// timeout elapses, or the context is cancelled. The condition is evaluated
// once immediately. A condition error aborts the poll; transient errors the
// caller considers benign must be swallowed inside cond.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func(context.Context) (bool, error)) error {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrConditionNotMet
		case <-tick.C:
		}
	}
}
