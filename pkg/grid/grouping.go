// pkg/grid/grouping.go
//
// Group and tree-data expand/collapse. Each row is a two-state machine
// (collapsed <-> expanded) driven by a toggle control; expand-all and
// collapse-all are bounded loops, because expanding a parent can reveal new
// collapsed children that no single scan would have found.
package grid

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// expandAllCap bounds the expand-all/collapse-all loops. Hitting the cap is
// reported through ErrExpandAllCap rather than treated as completion.
const expandAllCap = 100

// ExpandRow expands a collapsed group, tree or master row. Expanding an
// already-expanded row is a no-op, not a re-toggle.
func (h *Harness) ExpandRow(ctx context.Context, m RowMatcher) error {
	return h.toggleRow(ctx, m, true)
}

// CollapseRow collapses an expanded group, tree or master row. Idempotent.
func (h *Harness) CollapseRow(ctx context.Context, m RowMatcher) error {
	return h.toggleRow(ctx, m, false)
}

func (h *Harness) toggleRow(ctx context.Context, m RowMatcher, expand bool) error {
	row, data, err := h.requireRow(ctx, m)
	if err != nil {
		return err
	}
	if data.IsExpanded == expand {
		return nil
	}

	toggleSel := selGroupContracted
	if !expand {
		toggleSel = selGroupExpanded
	}
	toggle := row.Locator(toggleSel).First()
	if n, err := toggle.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: row %s has no expand/collapse control", m)
	}
	if err := toggle.Click(ctx); err != nil {
		return fmt.Errorf("toggling row %s: %w", m, err)
	}

	state := "expanded"
	if !expand {
		state = "collapsed"
	}
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, fmt.Sprintf("row %s %s", m, state), func(ctx context.Context) (bool, error) {
		_, data, err := h.matchRow(ctx, m)
		if err != nil || data == nil {
			return false, err
		}
		return data.IsExpanded == expand, nil
	})
}

// ExpandAll repeatedly expands the first still-collapsed toggle until none
// remain. Bounded at expandAllCap iterations; remaining toggles at the cap
// are an error, not silent truncation.
func (h *Harness) ExpandAll(ctx context.Context) error {
	return h.toggleAll(ctx, selGroupContracted, "expand")
}

// CollapseAll is the inverse of ExpandAll.
func (h *Harness) CollapseAll(ctx context.Context) error {
	return h.toggleAll(ctx, selGroupExpanded, "collapse")
}

func (h *Harness) toggleAll(ctx context.Context, toggleSel, verb string) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}
	toggles := root.Locator(selRowContainer + " " + toggleSel)

	for i := 0; i < expandAllCap; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := toggles.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			h.logger.Debug("Toggle-all finished", zap.String("verb", verb), zap.Int("iterations", i))
			return nil
		}
		if err := toggles.First().Click(ctx); err != nil {
			return fmt.Errorf("%s-all iteration %d: %w", verb, i, err)
		}

		// Give the widget a beat to materialize revealed children.
		if err := h.settle(ctx); err != nil {
			return err
		}
	}
	return fmt.Errorf("%s-all: %w after %d iterations", verb, ErrExpandAllCap, expandAllCap)
}

// ExpandColumnGroup expands a collapsed column group in the header.
func (h *Harness) ExpandColumnGroup(ctx context.Context, groupID string) error {
	return h.toggleColumnGroup(ctx, groupID, true)
}

// CollapseColumnGroup collapses an expanded column group in the header.
func (h *Harness) CollapseColumnGroup(ctx context.Context, groupID string) error {
	return h.toggleColumnGroup(ctx, groupID, false)
}

func (h *Harness) toggleColumnGroup(ctx context.Context, groupID string, expand bool) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}
	group := root.Locator(headerGroupCellByID(groupID)).First()
	if n, err := group.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: no column group %q", groupID)
	}

	state, err := group.GetAttribute(ctx, attrAriaExpanded)
	if err != nil {
		return err
	}
	if (state == "true") == expand {
		return nil
	}

	control := group.Locator(selHeaderExpand).First()
	if n, err := control.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: column group %q has no expand control", groupID)
	}
	if err := control.Click(ctx); err != nil {
		return fmt.Errorf("toggling column group %q: %w", groupID, err)
	}
	return nil
}
