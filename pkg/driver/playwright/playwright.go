// pkg/driver/playwright/playwright.go
//
// Package playwright adapts a playwright-go page to the harness's page
// contract. The mapping is almost 1:1; Playwright locators are already lazy
// and re-resolve on every operation.
//
// Playwright carries its own per-action timeouts, so the context passed to
// each operation is used only for early cancellation checks, not deadlines.
package playwright

import (
	"context"
	"fmt"

	pw "github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// Page wraps a playwright-go page.
type Page struct {
	page pw.Page
}

// New wraps an existing Playwright page. The caller owns browser and page
// lifecycle.
func New(p pw.Page) *Page {
	return &Page{page: p}
}

func (p *Page) Locator(selector string) page.Locator {
	return &locator{l: p.page.Locator(selector), desc: selector}
}

func (p *Page) LocatorByTestID(value string) page.Locator {
	return &locator{l: p.page.GetByTestId(value), desc: fmt.Sprintf("testid=%s", value)}
}

type locator struct {
	l    pw.Locator
	desc string
}

func (l *locator) Locator(selector string) page.Locator {
	return &locator{l: l.l.Locator(selector), desc: l.desc + " >> " + selector}
}

func (l *locator) Nth(index int) page.Locator {
	return &locator{l: l.l.Nth(index), desc: fmt.Sprintf("%s >> nth=%d", l.desc, index)}
}

func (l *locator) First() page.Locator {
	return &locator{l: l.l.First(), desc: l.desc + " >> nth=0"}
}

func (l *locator) String() string { return l.desc }

func (l *locator) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return l.l.Count()
}

func (l *locator) GetAttribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.l.GetAttribute(name)
}

func (l *locator) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.l.TextContent()
}

func (l *locator) InputValue(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return l.l.InputValue()
}

func (l *locator) IsChecked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return l.l.IsChecked()
}

func (l *locator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return l.l.IsVisible()
}

func (l *locator) BoundingBox(ctx context.Context) (*page.Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rect, err := l.l.BoundingBox()
	if err != nil {
		return nil, err
	}
	if rect == nil {
		return nil, fmt.Errorf("playwright: %q has no bounding box", l.desc)
	}
	return &page.Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}

func (l *locator) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.l.Click()
}

func (l *locator) DblClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.l.Dblclick()
}

func (l *locator) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.l.Fill(value)
}

func (l *locator) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.l.Press(key)
}

func (l *locator) DragTo(ctx context.Context, target page.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tl, ok := target.(*locator)
	if !ok {
		return fmt.Errorf("playwright: drag target %q is not a playwright locator", target)
	}
	return l.l.DragTo(tl.l)
}

func (l *locator) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.l.ScrollIntoViewIfNeeded()
}
