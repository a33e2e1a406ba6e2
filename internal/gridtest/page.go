// internal/gridtest/page.go
package gridtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// KeyPress records one Press call.
type KeyPress struct {
	Node *Node
	Key  string
}

// Drag records one DragTo call.
type Drag struct {
	From *Node
	To   *Node
}

// Page is the in-memory page fake. All reads and mutations of the tree go
// through its mutex so tests can mutate the DOM from background goroutines
// to simulate async loads.
type Page struct {
	mu   sync.Mutex
	root *Node

	// TestIDAttr is the attribute LocatorByTestID matches on.
	TestIDAttr string

	// Recorded interactions, for assertions.
	Clicks    []*Node
	DblClicks []*Node
	Keys      []KeyPress
	Drags     []Drag
}

// NewPage wraps a document tree.
func NewPage(root *Node) *Page {
	return &Page{root: root, TestIDAttr: "data-testid"}
}

// Update runs fn while holding the page lock. Use it for any mutation of
// the tree after the page is in use.
func (p *Page) Update(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn()
}

func (p *Page) Locator(selector string) page.Locator {
	return &Locator{page: p, steps: []lstep{{selector: selector, index: -1}}}
}

func (p *Page) LocatorByTestID(value string) page.Locator {
	return p.Locator(fmt.Sprintf(`[%s="%s"]`, p.TestIDAttr, value))
}

// lstep mirrors a lazy locator stage: narrow by selector and/or index.
type lstep struct {
	selector string
	index    int // -1 keeps all matches
}

// Locator is a lazy reference into the fake tree, re-resolved on every
// operation.
type Locator struct {
	page  *Page
	steps []lstep
}

func (l *Locator) child(s lstep) *Locator {
	steps := make([]lstep, len(l.steps), len(l.steps)+1)
	copy(steps, l.steps)
	return &Locator{page: l.page, steps: append(steps, s)}
}

func (l *Locator) Locator(selector string) page.Locator {
	return l.child(lstep{selector: selector, index: -1})
}

func (l *Locator) Nth(index int) page.Locator {
	return l.child(lstep{selector: "", index: index})
}

func (l *Locator) First() page.Locator { return l.Nth(0) }

func (l *Locator) String() string {
	parts := make([]string, 0, len(l.steps))
	for _, st := range l.steps {
		if st.selector != "" {
			parts = append(parts, st.selector)
		}
		if st.index >= 0 {
			parts = append(parts, fmt.Sprintf("nth=%d", st.index))
		}
	}
	return strings.Join(parts, " >> ")
}

// resolve walks the step chain under the page lock.
func (l *Locator) resolve() ([]*Node, error) {
	scope := []*Node{l.page.root}
	for _, st := range l.steps {
		next := scope
		if st.selector != "" {
			next = nil
			for _, el := range scope {
				matched, err := query(el, st.selector)
				if err != nil {
					return nil, err
				}
				next = append(next, matched...)
			}
		}
		if st.index >= 0 {
			if st.index < len(next) {
				next = next[st.index : st.index+1]
			} else {
				next = nil
			}
		}
		scope = next
	}
	return scope, nil
}

func (l *Locator) first() (*Node, error) {
	nodes, err := l.resolve()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("gridtest: no element matches %q", l.String())
	}
	return nodes[0], nil
}

func (l *Locator) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	nodes, err := l.resolve()
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (l *Locator) GetAttribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return "", err
	}
	return n.Attr(name), nil
}

func (l *Locator) TextContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return "", err
	}
	return n.textContent(), nil
}

func (l *Locator) InputValue(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return "", err
	}
	return n.Value, nil
}

func (l *Locator) IsChecked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return false, err
	}
	return n.Checked, nil
}

// IsVisible reports false, not an error, when nothing matches.
func (l *Locator) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	nodes, err := l.resolve()
	if err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, nil
	}
	return nodes[0].visible(), nil
}

func (l *Locator) BoundingBox(ctx context.Context) (*page.Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return nil, err
	}
	if n.Box != nil {
		box := *n.Box
		return &box, nil
	}
	return &page.Box{X: 0, Y: 0, Width: 100, Height: 24}, nil
}

func (l *Locator) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return err
	}
	l.page.Clicks = append(l.page.Clicks, n)
	if target, h := bubble(n, func(c *Node) *func(*Node) {
		if c.OnClick == nil {
			return nil
		}
		return &c.OnClick
	}); h != nil {
		(*h)(target)
	}
	return nil
}

func (l *Locator) DblClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return err
	}
	l.page.DblClicks = append(l.page.DblClicks, n)
	if target, h := bubble(n, func(c *Node) *func(*Node) {
		if c.OnDblClick == nil {
			return nil
		}
		return &c.OnDblClick
	}); h != nil {
		(*h)(target)
	}
	return nil
}

func (l *Locator) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return err
	}
	n.Value = value
	if n.OnFill != nil {
		n.OnFill(n, value)
	}
	return nil
}

func (l *Locator) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	n, err := l.first()
	if err != nil {
		return err
	}
	l.page.Keys = append(l.page.Keys, KeyPress{Node: n, Key: key})
	if target, h := bubble(n, func(c *Node) *func(*Node, string) {
		if c.OnKey == nil {
			return nil
		}
		return &c.OnKey
	}); h != nil {
		(*h)(target, key)
	}
	return nil
}

func (l *Locator) DragTo(ctx context.Context, target page.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tl, ok := target.(*Locator)
	if !ok {
		return fmt.Errorf("gridtest: drag target %q is not a gridtest locator", target)
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	from, err := l.first()
	if err != nil {
		return err
	}
	to, err := tl.first()
	if err != nil {
		return err
	}
	l.page.Drags = append(l.page.Drags, Drag{From: from, To: to})
	return nil
}

func (l *Locator) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	_, err := l.first()
	return err
}
