// pkg/driver/chromedriver/locator.go
package chromedriver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	actionTimeout     = 30 * time.Second
	readTimeout       = 10 * time.Second
	visibilityTimeout = 2 * time.Second
	dragMoveSteps     = 12
)

// step is one stage of a lazy locator: narrow by selector, by index, or
// both. An Index of -1 means "keep all matches".
type step struct {
	Selector string `json:"selector"`
	Index    int    `json:"index"`
}

// resolveJS walks a step chain from the document root and returns the
// matched elements. Kept as a single function so every operation resolves
// identically.
const resolveJS = `(function(steps) {
	let scope = [document];
	for (const st of steps) {
		let next = [];
		if (st.selector) {
			for (const el of scope) {
				next.push(...el.querySelectorAll(st.selector));
			}
		} else {
			next = scope.slice();
		}
		if (st.index >= 0) {
			next = st.index < next.length ? [next[st.index]] : [];
		}
		scope = next;
	}
	return scope;
})`

type locator struct {
	page  *Page
	steps []step
}

func (l *locator) child(s step) *locator {
	steps := make([]step, len(l.steps), len(l.steps)+1)
	copy(steps, l.steps)
	return &locator{page: l.page, steps: append(steps, s)}
}

func (l *locator) Locator(selector string) page.Locator {
	return l.child(step{Selector: selector, Index: -1})
}

func (l *locator) Nth(index int) page.Locator {
	return l.child(step{Index: index})
}

func (l *locator) First() page.Locator { return l.Nth(0) }

func (l *locator) String() string {
	parts := make([]string, 0, len(l.steps))
	for _, st := range l.steps {
		if st.Selector != "" {
			parts = append(parts, st.Selector)
		}
		if st.Index >= 0 {
			parts = append(parts, fmt.Sprintf("nth=%d", st.Index))
		}
	}
	return strings.Join(parts, " >> ")
}

// evalResult is the uniform shape element operations return from the page:
// ok is false when the locator matched nothing.
type evalResult[T any] struct {
	Ok    bool `json:"ok"`
	Value T    `json:"value"`
}

// expr builds an expression that resolves the locator and evaluates body
// with `el` bound to the first match. body must be a JS expression producing
// the value field.
func (l *locator) expr(body string) string {
	stepsJSON, _ := json.Marshal(l.steps)
	return fmt.Sprintf(`(function() {
		const els = (%s)(%s);
		if (els.length === 0) { return {ok: false, value: null}; }
		const el = els[0];
		return {ok: true, value: (%s)};
	})()`, resolveJS, stepsJSON, body)
}

// eval runs an element-scoped expression and decodes the result.
func evalLocator[T any](ctx context.Context, l *locator, timeout time.Duration, body string) (T, bool, error) {
	var res evalResult[T]
	err := l.page.run(ctx, timeout, chromedp.Evaluate(l.expr(body), &res))
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("chromedriver: evaluating %q: %w", l.String(), err)
	}
	return res.Value, res.Ok, nil
}

func (l *locator) require(ctx context.Context, timeout time.Duration, body string) error {
	_, ok, err := evalLocator[bool](ctx, l, timeout, body)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return nil
}

func (l *locator) Count(ctx context.Context) (int, error) {
	stepsJSON, _ := json.Marshal(l.steps)
	expr := fmt.Sprintf(`(%s)(%s).length`, resolveJS, stepsJSON)

	var n int
	if err := l.page.run(ctx, readTimeout, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, fmt.Errorf("chromedriver: counting %q: %w", l.String(), err)
	}
	return n, nil
}

func (l *locator) GetAttribute(ctx context.Context, name string) (string, error) {
	arg, _ := json.Marshal(name)
	v, ok, err := evalLocator[string](ctx, l, readTimeout, fmt.Sprintf(`el.getAttribute(%s) ?? ""`, arg))
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return v, nil
}

func (l *locator) TextContent(ctx context.Context) (string, error) {
	v, ok, err := evalLocator[string](ctx, l, readTimeout, `el.textContent ?? ""`)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return v, nil
}

func (l *locator) InputValue(ctx context.Context) (string, error) {
	v, ok, err := evalLocator[string](ctx, l, readTimeout, `el.value ?? ""`)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return v, nil
}

func (l *locator) IsChecked(ctx context.Context) (bool, error) {
	v, ok, err := evalLocator[bool](ctx, l, readTimeout, `!!el.checked`)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return v, nil
}

// IsVisible approximates rendered visibility: attached, not display:none or
// visibility:hidden, and a non-empty box. Zero matches report false rather
// than an error.
func (l *locator) IsVisible(ctx context.Context) (bool, error) {
	const body = `(function() {
		const style = window.getComputedStyle(el);
		if (style.visibility === 'hidden' || style.display === 'none' || style.opacity === '0') { return false; }
		const rect = el.getBoundingClientRect();
		return rect.width > 0 && rect.height > 0;
	})()`

	v, ok, err := evalLocator[bool](ctx, l, visibilityTimeout, body)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return v, nil
}

func (l *locator) BoundingBox(ctx context.Context) (*page.Box, error) {
	const body = `(function() {
		const r = el.getBoundingClientRect();
		return {x: r.x, y: r.y, width: r.width, height: r.height};
	})()`

	box, ok, err := evalLocator[page.Box](ctx, l, readTimeout, body)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("chromedriver: no element matches %q", l.String())
	}
	return &box, nil
}

// center scrolls the element into view and returns its midpoint.
func (l *locator) center(ctx context.Context) (x, y float64, err error) {
	if err := l.ScrollIntoView(ctx); err != nil {
		return 0, 0, err
	}
	box, err := l.BoundingBox(ctx)
	if err != nil {
		return 0, 0, err
	}
	x, y = box.Mid()
	return x, y, nil
}

func (l *locator) Click(ctx context.Context) error {
	x, y, err := l.center(ctx)
	if err != nil {
		return err
	}
	l.page.logger.Debug("Clicking element", zap.String("locator", l.String()))
	return l.page.run(ctx, actionTimeout, chromedp.MouseClickXY(x, y))
}

func (l *locator) DblClick(ctx context.Context) error {
	x, y, err := l.center(ctx)
	if err != nil {
		return err
	}
	l.page.logger.Debug("Double-clicking element", zap.String("locator", l.String()))
	return l.page.run(ctx, actionTimeout, chromedp.MouseClickXY(x, y, chromedp.ClickCount(2)))
}

// Fill focuses the element, replaces its value and fires the input/change
// events frameworks listen on.
func (l *locator) Fill(ctx context.Context, value string) error {
	arg, _ := json.Marshal(value)
	body := fmt.Sprintf(`(function() {
		el.focus();
		el.value = %s;
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, arg)
	return l.require(ctx, actionTimeout, body)
}

func (l *locator) Press(ctx context.Context, key string) error {
	if err := l.require(ctx, actionTimeout, `(el.focus(), true)`); err != nil {
		return err
	}
	l.page.logger.Debug("Pressing key", zap.String("key", key), zap.String("locator", l.String()))
	return l.page.run(ctx, actionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		return dispatchKey(ctx, key)
	}))
}

// DragTo simulates pointer-down on this element's midpoint, interpolated
// movement, and pointer-up on the target's midpoint.
func (l *locator) DragTo(ctx context.Context, target page.Locator) error {
	sx, sy, err := l.center(ctx)
	if err != nil {
		return err
	}

	tl, ok := target.(*locator)
	if !ok {
		return fmt.Errorf("chromedriver: drag target %q is not a chromedriver locator", target)
	}
	tx, ty, err := tl.center(ctx)
	if err != nil {
		return err
	}

	l.page.logger.Debug("Dragging element",
		zap.String("from", l.String()), zap.String("to", target.String()))

	return l.page.run(ctx, actionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.MouseEvent(input.MouseMoved, sx, sy).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.MouseEvent(input.MousePressed, sx, sy, chromedp.Button("left")).Do(ctx); err != nil {
			return err
		}
		for i := 1; i <= dragMoveSteps; i++ {
			frac := float64(i) / float64(dragMoveSteps)
			mx := sx + (tx-sx)*frac
			my := sy + (ty-sy)*frac
			if err := chromedp.MouseEvent(input.MouseMoved, mx, my).Do(ctx); err != nil {
				return err
			}
		}
		return chromedp.MouseEvent(input.MouseReleased, tx, ty, chromedp.Button("left")).Do(ctx)
	}))
}

func (l *locator) ScrollIntoView(ctx context.Context) error {
	return l.require(ctx, actionTimeout, `(el.scrollIntoView({block: 'center', inline: 'nearest'}), true)`)
}

// cssAttrEscape escapes a value for a double-quoted CSS attribute selector.
func cssAttrEscape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}
