// pkg/grid/harness.go
package grid

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// Harness is the caller-facing handle for one grid instance. It binds a
// normalized Config to a live page and exposes locator, wait, assertion,
// action and data methods. A harness is safe to keep for the lifetime of the
// page; every operation re-queries the DOM, so virtualization churn between
// calls is harmless.
//
// Operations on one harness are expected to be issued sequentially (awaited),
// matching how browser automation serializes page access. Independent
// harnesses over the same page, e.g. a master grid and its nested detail
// grids, may be interleaved freely.
type Harness struct {
	page   page.Page
	cfg    Config
	logger *zap.Logger

	// rootOverride scopes the harness under an ancestor locator instead of a
	// page-level address. Used for nested detail grids.
	rootOverride page.Locator

	mu           sync.Mutex
	resolvedRoot page.Locator
}

// Option customizes harness construction.
type Option func(*Harness)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// New builds a harness from a structured configuration. The configuration is
// validated and defaults are merged in; the result is immutable.
func New(p page.Page, cfg Config, opts ...Option) (*Harness, error) {
	normalized, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	h := &Harness{
		page:   p,
		cfg:    normalized,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("gridwright")
	return h, nil
}

// NewFromAddress builds a harness from a bare identifying string with default
// timeouts and no column metadata.
func NewFromAddress(p page.Page, address string, opts ...Option) (*Harness, error) {
	return New(p, Config{Address: address}, opts...)
}

// Config returns the harness's normalized configuration.
func (h *Harness) Config() Config { return h.cfg }

// root resolves the grid root locator. A structural address is taken
// literally. Anything else is treated as a test-identifier attribute value
// first; when no element carries that identifier yet, the address is retried
// as a literal selector without caching, so a grid that mounts later can
// still be picked up by identifier.
func (h *Harness) root(ctx context.Context) (page.Locator, error) {
	if h.rootOverride != nil {
		return h.rootOverride, nil
	}

	h.mu.Lock()
	cached := h.resolvedRoot
	h.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	if structuralAddress(h.cfg.Address) {
		loc := h.page.Locator(h.cfg.Address)
		h.mu.Lock()
		h.resolvedRoot = loc
		h.mu.Unlock()
		return loc, nil
	}

	byID := h.page.LocatorByTestID(h.cfg.Address)
	n, err := byID.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving grid root %q: %w", h.cfg.Address, err)
	}
	if n > 0 {
		h.mu.Lock()
		h.resolvedRoot = byID
		h.mu.Unlock()
		return byID, nil
	}

	h.logger.Debug("No test-identifier match for grid address, falling back to literal selector",
		zap.String("address", h.cfg.Address))
	return h.page.Locator(h.cfg.Address), nil
}

// Grid returns the grid root locator.
func (h *Harness) Grid(ctx context.Context) (page.Locator, error) {
	return h.root(ctx)
}

// Row resolves a matcher to a row locator. Direct matchers produce a lazy
// structural locator without touching the page; derived matchers scan the
// visible rows. A nil locator with nil error means no visible row matches.
func (h *Harness) Row(ctx context.Context, m RowMatcher) (page.Locator, error) {
	if sel, ok := directSelector(m); ok {
		root, err := h.root(ctx)
		if err != nil {
			return nil, err
		}
		return root.Locator(sel).First(), nil
	}

	loc, _, err := h.matchRow(ctx, m)
	return loc, err
}

// Cell resolves a matcher plus column id to a cell locator. The cell is
// addressed through the row's viewport index so that pinned-column cells,
// which live outside the row element, are found too. A nil locator with nil
// error means the row is not visible.
func (h *Harness) Cell(ctx context.Context, m RowMatcher, columnID string) (page.Locator, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	if vm, ok := m.(byViewportIndex); ok {
		return root.Locator(cellByRowIndexAndColumn(vm.index, columnID)).First(), nil
	}

	_, data, err := h.matchRow(ctx, m)
	if err != nil || data == nil {
		return nil, err
	}
	return root.Locator(cellByRowIndexAndColumn(data.ViewportIndex, columnID)).First(), nil
}

// HeaderCell returns the header cell locator for a column.
func (h *Harness) HeaderCell(ctx context.Context, columnID string) (page.Locator, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	return root.Locator(headerCellByColumn(columnID)).First(), nil
}

// FilterInput returns the floating-filter input locator for a column.
func (h *Harness) FilterInput(ctx context.Context, columnID string) (page.Locator, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	return root.Locator(filterInputByColumn(columnID)).First(), nil
}

// requireRow resolves a matcher and turns absence into an error. Action
// methods use it; lookup primitives keep returning absence instead.
func (h *Harness) requireRow(ctx context.Context, m RowMatcher) (page.Locator, *RowData, error) {
	loc, data, err := h.matchRow(ctx, m)
	if err != nil {
		return nil, nil, err
	}
	if loc == nil {
		return nil, nil, fmt.Errorf("grid: no visible row matches %s", m)
	}
	return loc, data, nil
}

// requireCell resolves a cell for an action and turns absence into an error.
func (h *Harness) requireCell(ctx context.Context, m RowMatcher, columnID string) (page.Locator, error) {
	cell, err := h.Cell(ctx, m, columnID)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, fmt.Errorf("grid: no visible row matches %s", m)
	}
	return cell, nil
}
