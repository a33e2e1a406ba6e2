// pkg/grid/state.go
//
// State extraction. No single authoritative source exists for grid-level
// state, so each field is computed through a priority chain of heuristics.
package grid

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// pagingTotalRe matches the trailing total in paging summaries such as
// "1 to 10 of 97".
var pagingTotalRe = regexp.MustCompile(`(?i)of\s+([\d,]+)`)

// GetGridState computes a point-in-time snapshot of the grid's state.
func (h *Harness) GetGridState(ctx context.Context) (GridState, error) {
	root, err := h.root(ctx)
	if err != nil {
		return GridState{}, err
	}

	var state GridState
	if state.VisibleRows, err = root.Locator(visibleRowsSelector()).Count(ctx); err != nil {
		return GridState{}, fmt.Errorf("counting visible rows: %w", err)
	}
	if state.SelectedRows, err = root.Locator(selectedRowsSelector()).Count(ctx); err != nil {
		return GridState{}, fmt.Errorf("counting selected rows: %w", err)
	}
	if state.TotalRows, err = h.totalRows(ctx, root, state.VisibleRows); err != nil {
		return GridState{}, err
	}
	state.IsLoading = h.loadingOverlayVisible(ctx, root)
	if state.SortedBy, err = h.sortModel(ctx, root); err != nil {
		return GridState{}, err
	}
	return state, nil
}

// totalRows resolves the dataset size: paging-panel summary first, then the
// status bar, then the visible-row count. The last resort undercounts under
// virtualization; that limitation is documented rather than patched over.
func (h *Harness) totalRows(ctx context.Context, root page.Locator, visible int) (int, error) {
	summary := root.Locator(selPagingPanel + " " + selPagingSummary).First()
	if n, err := summary.Count(ctx); err == nil && n > 0 {
		text, err := summary.TextContent(ctx)
		if err == nil {
			if m := pagingTotalRe.FindStringSubmatch(text); m != nil {
				if total, err := parseCount(m[1]); err == nil {
					return total, nil
				}
			}
		}
	}

	values := root.Locator(selStatusBar + " " + selStatusBarValues)
	if n, err := values.Count(ctx); err == nil {
		for i := 0; i < n; i++ {
			text, err := values.Nth(i).TextContent(ctx)
			if err != nil {
				continue
			}
			if total, err := parseCount(text); err == nil {
				return total, nil
			}
		}
	}

	h.logger.Debug("No authoritative total row count, falling back to visible count",
		zap.Int("visible", visible))
	return visible, nil
}

// sortModel derives the sorted columns by scanning header cells for the sort
// indicator attribute, in header order.
func (h *Harness) sortModel(ctx context.Context, root page.Locator) ([]SortEntry, error) {
	headers := root.Locator(selHeader + " " + selHeaderCell)
	n, err := headers.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning header cells: %w", err)
	}

	var entries []SortEntry
	for i := 0; i < n; i++ {
		cell := headers.Nth(i)
		sortAttr, err := cell.GetAttribute(ctx, attrAriaSort)
		if err != nil {
			return nil, err
		}

		var dir SortDirection
		switch sortAttr {
		case "ascending":
			dir = SortAscending
		case "descending":
			dir = SortDescending
		default:
			continue
		}

		colID, err := cell.GetAttribute(ctx, attrColID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, SortEntry{ColumnID: colID, Direction: dir})
	}
	return entries, nil
}

// GetSelectedRowIDs returns the stable ids of visibly selected rows, skipping
// rows without one.
func (h *Harness) GetSelectedRowIDs(ctx context.Context) ([]string, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}

	selected := root.Locator(selectedRowsSelector())
	n, err := selected.Count(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, err := selected.Nth(i).GetAttribute(ctx, attrRowID)
		if err != nil {
			return nil, err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func parseCount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.Atoi(s)
}
