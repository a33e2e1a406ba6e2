// pkg/grid/rangesel.go
//
// Range selection. A rectangular cell range is selected by a pointer drag
// between the midpoints of the two corner cells; fill-handle drags extend an
// existing range using the same drag primitive anchored at the fill-handle
// sub-element.
package grid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// CellRef names one cell: a row matcher plus a column id.
type CellRef struct {
	Row      RowMatcher
	ColumnID string
}

func (c CellRef) String() string {
	return fmt.Sprintf("%s/%s", c.Row, c.ColumnID)
}

// SelectRange drags from one corner cell to the other, selecting the
// rectangular cell range between them. Both cells must be visible.
func (h *Harness) SelectRange(ctx context.Context, from, to CellRef) error {
	fromCell, err := h.requireCell(ctx, from.Row, from.ColumnID)
	if err != nil {
		return err
	}
	toCell, err := h.requireCell(ctx, to.Row, to.ColumnID)
	if err != nil {
		return err
	}
	if err := fromCell.DragTo(ctx, toCell); err != nil {
		return fmt.Errorf("dragging range %s -> %s: %w", from, to, err)
	}
	return nil
}

// ExtendSelectionByFill drags the fill handle to the cell rowDelta rows and
// colDelta columns away from the focused cell, extending the current range
// selection. A range selection with a fill handle must already exist.
func (h *Harness) ExtendSelectionByFill(ctx context.Context, rowDelta, colDelta int) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}

	handle := root.Locator(selFillHandle).First()
	if n, err := handle.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: no fill handle visible; select a range first")
	}

	anchor, err := h.focusedCell(ctx)
	if err != nil {
		return err
	}
	anchorRowIdx, anchorColID, err := h.cellPosition(ctx, anchor)
	if err != nil {
		return err
	}

	targetColID := anchorColID
	if colDelta != 0 {
		order, err := h.headerColumnOrder(ctx)
		if err != nil {
			return err
		}
		pos := -1
		for i, id := range order {
			if id == anchorColID {
				pos = i
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("grid: focused column %q not found in header", anchorColID)
		}
		if pos+colDelta < 0 || pos+colDelta >= len(order) {
			return fmt.Errorf("grid: fill target column offset %d out of range", colDelta)
		}
		targetColID = order[pos+colDelta]
	}

	target := root.Locator(cellByRowIndexAndColumn(anchorRowIdx+rowDelta, targetColID)).First()
	if n, err := target.Count(ctx); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("grid: fill target cell (row %d, column %q) not visible", anchorRowIdx+rowDelta, targetColID)
	}

	if err := handle.DragTo(ctx, target); err != nil {
		return fmt.Errorf("dragging fill handle: %w", err)
	}
	return nil
}

// cellPosition reads a cell's row viewport index and column id. The row
// index comes from the enclosing row element, which direct cell locators
// cannot reach, so it is re-derived from the cell's aria-colindex-free
// addressing attributes.
func (h *Harness) cellPosition(ctx context.Context, cell page.Locator) (int, string, error) {
	colID, err := cell.GetAttribute(ctx, attrColID)
	if err != nil {
		return 0, "", err
	}
	// The widget stamps the owning row's index onto focused cells' parent
	// row; cells themselves expose it through aria-rowindex on some builds.
	// Fall back to scanning visible rows for a focused cell.
	if v, err := cell.GetAttribute(ctx, attrAriaRowIndex); err == nil && v != "" {
		if pos, convErr := strconv.Atoi(v); convErr == nil {
			if off, ok := h.ariaRowOffset(ctx); ok {
				return pos - off, colID, nil
			}
		}
	}

	_, rows, err := h.visibleRows(ctx)
	if err != nil {
		return 0, "", err
	}
	root, err := h.root(ctx)
	if err != nil {
		return 0, "", err
	}
	for _, row := range rows {
		focused := root.Locator(fmt.Sprintf(`%s[%s="%d"] %s`, selRow, attrRowIndex, row.ViewportIndex, focusedCellSelector()))
		if n, err := focused.Count(ctx); err == nil && n > 0 {
			return row.ViewportIndex, colID, nil
		}
	}
	return 0, "", fmt.Errorf("grid: could not determine focused cell position")
}

// ariaRowOffset derives the difference between aria row positions and
// viewport indexes from a visible row. Aria numbering counts every header
// row, and column groups add header rows, so the offset cannot be assumed
// constant.
func (h *Harness) ariaRowOffset(ctx context.Context) (int, bool) {
	_, rows, err := h.visibleRows(ctx)
	if err != nil {
		return 0, false
	}
	for _, row := range rows {
		// Aria positions are 1-based; zero means the attribute was absent.
		if row.AriaPosition != 0 {
			return row.AriaPosition - row.ViewportIndex, true
		}
	}
	return 0, false
}

// headerColumnOrder returns column ids in header display order.
func (h *Harness) headerColumnOrder(ctx context.Context) ([]string, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	headers := root.Locator(selHeader + " " + selHeaderCell)
	n, err := headers.Count(ctx)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := headers.Nth(i).GetAttribute(ctx, attrColID)
		if err != nil {
			return nil, err
		}
		if id != "" {
			order = append(order, id)
		}
	}
	return order, nil
}
