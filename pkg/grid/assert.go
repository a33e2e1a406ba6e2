// pkg/grid/assert.go
//
// Assertion layer: match or derive, compare, then pass or raise. A
// definitively failed comparison raises AssertionError; a condition that
// never held within its retry bound raises TimeoutError, with a closest-match
// diagnostic attached to failed row lookups.
package grid

import (
	"context"
	"errors"
	"fmt"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// ExpectRowCount asserts that exactly n rows are visible.
func (h *Harness) ExpectRowCount(ctx context.Context, n int) error {
	count, err := h.visibleRowCount(ctx)
	if err != nil {
		return err
	}
	if count != n {
		return &AssertionError{
			Condition: fmt.Sprintf("visible row count == %d", n),
			Detail:    fmt.Sprintf("actual count %d", count),
		}
	}
	return nil
}

// ExpectRowCountInRange asserts that the visible row count lies within
// [min, max] inclusive.
func (h *Harness) ExpectRowCountInRange(ctx context.Context, min, max int) error {
	count, err := h.visibleRowCount(ctx)
	if err != nil {
		return err
	}
	if count < min || count > max {
		return &AssertionError{
			Condition: fmt.Sprintf("visible row count in [%d, %d]", min, max),
			Detail:    fmt.Sprintf("actual count %d", count),
		}
	}
	return nil
}

// ExpectRowContains asserts that some visible row matches every supplied cell
// value. The full slow-path scan retries until the row-load timeout elapses,
// covering asynchronous data arrival; the final failure carries the number of
// rows scanned and the closest-scoring candidate.
func (h *Harness) ExpectRowContains(ctx context.Context, values map[string]string) error {
	condition := "row matching " + formatCellValues(values)

	err := page.Poll(ctx, h.cfg.Timeouts.RowLoad, pollInterval, func(ctx context.Context) (bool, error) {
		loc, _, err := h.matchRow(ctx, ByCellValues(values))
		if err != nil {
			return false, err
		}
		return loc != nil, nil
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, page.ErrConditionNotMet) {
		return err
	}

	// Re-scan once for diagnostics.
	_, rows, scanErr := h.visibleRows(ctx)
	timeoutErr := &TimeoutError{
		Condition: condition,
		Timeout:   h.cfg.Timeouts.RowLoad,
	}
	if scanErr == nil {
		timeoutErr.Scanned = len(rows)
		timeoutErr.Closest = closestMatch(rows, values)
	}
	return timeoutErr
}

// ExpectRowNotContains asserts the logical inverse: polls until no visible
// row matches the supplied cell values.
func (h *Harness) ExpectRowNotContains(ctx context.Context, values map[string]string) error {
	condition := "absence of row matching " + formatCellValues(values)

	err := page.Poll(ctx, h.cfg.Timeouts.RowLoad, pollInterval, func(ctx context.Context) (bool, error) {
		loc, _, err := h.matchRow(ctx, ByCellValues(values))
		if err != nil {
			return false, err
		}
		return loc == nil, nil
	})
	if errors.Is(err, page.ErrConditionNotMet) {
		return &TimeoutError{Condition: condition, Timeout: h.cfg.Timeouts.RowLoad}
	}
	return err
}

// ExpectCellValue asserts that a cell's normalized value equals want
// (case/whitespace-insensitive).
func (h *Harness) ExpectCellValue(ctx context.Context, m RowMatcher, columnID, want string) error {
	got, err := h.GetCellValue(ctx, m, columnID)
	if err != nil {
		return err
	}
	if normValue(got) != normValue(want) {
		return &AssertionError{
			Condition: fmt.Sprintf("cell %s/%s == %q", m, columnID, want),
			Detail:    fmt.Sprintf("actual %q", got),
		}
	}
	return nil
}

// ExpectSortedBy asserts that the column carries the given sort direction
// indicator. Evaluated immediately; a present-but-different direction is a
// definitive failure, not a timing issue.
func (h *Harness) ExpectSortedBy(ctx context.Context, columnID string, dir SortDirection) error {
	state, err := h.GetGridState(ctx)
	if err != nil {
		return err
	}
	for _, entry := range state.SortedBy {
		if entry.ColumnID == columnID {
			if entry.Direction == dir {
				return nil
			}
			return &AssertionError{
				Condition: fmt.Sprintf("column %q sorted %s", columnID, dir),
				Detail:    fmt.Sprintf("sorted %s", entry.Direction),
			}
		}
	}
	return &AssertionError{
		Condition: fmt.Sprintf("column %q sorted %s", columnID, dir),
		Detail:    "column carries no sort indicator",
	}
}

// ExpectEmpty asserts that no rows are visible.
func (h *Harness) ExpectEmpty(ctx context.Context) error {
	count, err := h.visibleRowCount(ctx)
	if err != nil {
		return err
	}
	if count != 0 {
		return &AssertionError{
			Condition: "grid empty",
			Detail:    fmt.Sprintf("%d rows visible", count),
		}
	}
	return nil
}

// ExpectNoRowsOverlay asserts that the widget's "no rows" overlay is shown.
func (h *Harness) ExpectNoRowsOverlay(ctx context.Context) error {
	root, err := h.root(ctx)
	if err != nil {
		return err
	}
	if !h.overlayVisible(ctx, root, selNoRowsOverlay) {
		return &AssertionError{Condition: "no-rows overlay visible"}
	}
	return nil
}

// ExpectRowSelected asserts that the matched row is visibly selected.
func (h *Harness) ExpectRowSelected(ctx context.Context, m RowMatcher) error {
	row, _, err := h.requireRow(ctx, m)
	if err != nil {
		return err
	}
	class, err := row.GetAttribute(ctx, "class")
	if err != nil {
		return err
	}
	if !hasClass(class, classRowSelected) {
		return &AssertionError{Condition: fmt.Sprintf("row %s selected", m)}
	}
	return nil
}
