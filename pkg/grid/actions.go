// pkg/grid/actions.go
package grid

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ClickCell clicks a cell.
func (h *Harness) ClickCell(ctx context.Context, m RowMatcher, columnID string) error {
	cell, err := h.requireCell(ctx, m, columnID)
	if err != nil {
		return err
	}
	if err := cell.Click(ctx); err != nil {
		return fmt.Errorf("clicking cell %s/%s: %w", m, columnID, err)
	}
	return nil
}

// DoubleClickCell double-clicks a cell, the widget's default edit trigger.
func (h *Harness) DoubleClickCell(ctx context.Context, m RowMatcher, columnID string) error {
	cell, err := h.requireCell(ctx, m, columnID)
	if err != nil {
		return err
	}
	if err := cell.DblClick(ctx); err != nil {
		return fmt.Errorf("double-clicking cell %s/%s: %w", m, columnID, err)
	}
	return nil
}

// EditCell enters edit mode on a cell, replaces its value, and commits with
// Enter.
func (h *Harness) EditCell(ctx context.Context, m RowMatcher, columnID, value string) error {
	if err := h.DoubleClickCell(ctx, m, columnID); err != nil {
		return err
	}
	if err := h.waitForCellEdit(ctx, m, columnID); err != nil {
		return err
	}

	cell, err := h.requireCell(ctx, m, columnID)
	if err != nil {
		return err
	}
	editor := cell.Locator(selCellEditorInput).First()
	if err := editor.Fill(ctx, value); err != nil {
		return fmt.Errorf("filling editor for %s/%s: %w", m, columnID, err)
	}
	if err := editor.Press(ctx, "Enter"); err != nil {
		return fmt.Errorf("committing edit for %s/%s: %w", m, columnID, err)
	}
	return nil
}

// SortColumn clicks a column header once, advancing the widget's sort cycle.
func (h *Harness) SortColumn(ctx context.Context, columnID string) error {
	header, err := h.HeaderCell(ctx, columnID)
	if err != nil {
		return err
	}
	if err := header.Click(ctx); err != nil {
		return fmt.Errorf("clicking header %q: %w", columnID, err)
	}
	return nil
}

// SortColumnTo clicks a column header until its sort indicator shows the
// wanted direction. The none -> asc -> desc cycle bounds this at three
// clicks.
func (h *Harness) SortColumnTo(ctx context.Context, columnID string, dir SortDirection) error {
	want := "ascending"
	if dir == SortDescending {
		want = "descending"
	}

	header, err := h.HeaderCell(ctx, columnID)
	if err != nil {
		return err
	}
	for attempt := 0; attempt < 3; attempt++ {
		current, err := header.GetAttribute(ctx, attrAriaSort)
		if err != nil {
			return err
		}
		if current == want {
			return nil
		}
		if err := header.Click(ctx); err != nil {
			return fmt.Errorf("clicking header %q: %w", columnID, err)
		}
	}

	current, err := header.GetAttribute(ctx, attrAriaSort)
	if err != nil {
		return err
	}
	if current != want {
		return fmt.Errorf("grid: column %q did not reach sort direction %s (indicator %q)", columnID, dir, current)
	}
	return nil
}

// FilterColumn types into a column's floating filter input.
func (h *Harness) FilterColumn(ctx context.Context, columnID, text string) error {
	input, err := h.FilterInput(ctx, columnID)
	if err != nil {
		return err
	}
	if n, err := input.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: column %q has no floating filter input", columnID)
	}
	if err := input.Fill(ctx, text); err != nil {
		return fmt.Errorf("filling filter for %q: %w", columnID, err)
	}
	return input.Press(ctx, "Enter")
}

// SelectRow selects a row through its selection checkbox, or by clicking the
// row when the widget renders none. Already-selected rows are left alone.
func (h *Harness) SelectRow(ctx context.Context, m RowMatcher) error {
	return h.setRowSelected(ctx, m, true)
}

// DeselectRow deselects a row. Unselected rows are left alone.
func (h *Harness) DeselectRow(ctx context.Context, m RowMatcher) error {
	return h.setRowSelected(ctx, m, false)
}

// SelectRows selects each matched row in turn.
func (h *Harness) SelectRows(ctx context.Context, matchers ...RowMatcher) error {
	for _, m := range matchers {
		if err := h.SelectRow(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// DeselectAll deselects every visibly selected row, one at a time; each
// deselection can re-render the row set, so the first selected row is
// re-resolved on every step.
func (h *Harness) DeselectAll(ctx context.Context) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}
	selected := root.Locator(selectedRowsSelector())

	for i := 0; i < expandAllCap; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := selected.Count(ctx)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		row := selected.First()
		checkbox := row.Locator(selSelectionCheckbox).First()
		target := row
		if cn, err := checkbox.Count(ctx); err == nil && cn > 0 {
			target = checkbox
		}
		if err := target.Click(ctx); err != nil {
			return fmt.Errorf("deselecting row: %w", err)
		}
	}
	return fmt.Errorf("grid: deselect-all did not converge after %d rows", expandAllCap)
}

func (h *Harness) setRowSelected(ctx context.Context, m RowMatcher, want bool) error {
	row, _, err := h.requireRow(ctx, m)
	if err != nil {
		return err
	}
	class, err := row.GetAttribute(ctx, "class")
	if err != nil {
		return err
	}
	if hasClass(class, classRowSelected) == want {
		return nil
	}

	checkbox := row.Locator(selSelectionCheckbox).First()
	target := row
	if n, err := checkbox.Count(ctx); err == nil && n > 0 {
		target = checkbox
	}
	if err := target.Click(ctx); err != nil {
		return fmt.Errorf("toggling selection for %s: %w", m, err)
	}
	return nil
}

// ScrollToRow brings a row into view, paging through the virtualized body
// with the keyboard when the row is not yet materialized. Bounded by the
// row-load timeout; the scroll timeout paces individual steps.
func (h *Harness) ScrollToRow(ctx context.Context, m RowMatcher) error {
	deadline := time.Now().Add(h.cfg.Timeouts.RowLoad)

	for {
		loc, _, err := h.matchRow(ctx, m)
		if err != nil {
			return err
		}
		if loc != nil {
			return loc.ScrollIntoView(ctx)
		}
		if time.Now().After(deadline) {
			return &TimeoutError{
				Condition: fmt.Sprintf("%s scrolled into view", m),
				Timeout:   h.cfg.Timeouts.RowLoad,
			}
		}

		if err := h.pageDownOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.cfg.Timeouts.Scroll):
		}
	}
}

// pageDownOnce advances the virtual viewport by one page via the keyboard,
// focusing the first visible cell when nothing in the grid holds focus.
func (h *Harness) pageDownOnce(ctx context.Context) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}

	focused := root.Locator(focusedCellSelector()).First()
	if n, err := focused.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		first := root.Locator(visibleRowsSelector() + " " + selCell).First()
		if fn, err := first.Count(ctx); err != nil {
			return err
		} else if fn == 0 {
			return fmt.Errorf("grid: cannot scroll, no cells visible")
		}
		if err := first.Click(ctx); err != nil {
			return fmt.Errorf("focusing grid for scroll: %w", err)
		}
		focused = first
	}

	h.logger.Debug("Paging virtual viewport", zap.String("key", "PageDown"))
	return focused.Press(ctx, "PageDown")
}
