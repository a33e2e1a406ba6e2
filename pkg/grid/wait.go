// pkg/grid/wait.go
//
// Synchronization engine. Every wait is a timeout-bounded polling loop; none
// retry indefinitely. On expiry a TimeoutError carries the elapsed bound and
// the condition description.
package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

const pollInterval = 75 * time.Millisecond

// poll runs cond until it holds or timeout elapses, converting expiry into a
// TimeoutError describing the condition.
func (h *Harness) poll(ctx context.Context, timeout time.Duration, condition string, cond func(context.Context) (bool, error)) error {
	h.logger.Debug("Waiting", zap.String("condition", condition), zap.Duration("timeout", timeout))
	err := page.Poll(ctx, timeout, pollInterval, cond)
	if errors.Is(err, page.ErrConditionNotMet) {
		return &TimeoutError{Condition: condition, Timeout: timeout}
	}
	return err
}

// WaitForReady blocks until the grid is structurally ready: root and header
// present and visible, then no loading overlay.
func (h *Harness) WaitForReady(ctx context.Context) error {
	return h.poll(ctx, h.cfg.Timeouts.Ready, "grid structurally ready", func(ctx context.Context) (bool, error) {
		root, err := h.root(ctx)
		if err != nil {
			return false, err
		}
		if n, err := root.Count(ctx); err != nil || n == 0 {
			return false, err
		}
		visible, err := root.Locator(selHeader).First().IsVisible(ctx)
		if err != nil || !visible {
			// Visibility errors during mount are transient.
			return false, nil
		}
		return !h.loadingOverlayVisible(ctx, root), nil
	})
}

// WaitForDataLoaded blocks until the loading overlay is absent.
func (h *Harness) WaitForDataLoaded(ctx context.Context) error {
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, "data loaded (loading overlay absent)", func(ctx context.Context) (bool, error) {
		root, err := h.root(ctx)
		if err != nil {
			return false, err
		}
		return !h.loadingOverlayVisible(ctx, root), nil
	})
}

// WaitForRowCount blocks until exactly n rows are visible.
func (h *Harness) WaitForRowCount(ctx context.Context, n int) error {
	condition := fmt.Sprintf("visible row count == %d", n)
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, condition, func(ctx context.Context) (bool, error) {
		count, err := h.visibleRowCount(ctx)
		if err != nil {
			return false, err
		}
		return count == n, nil
	})
}

// WaitForRow blocks until a row matching m is visible.
func (h *Harness) WaitForRow(ctx context.Context, m RowMatcher) error {
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, m.String(), func(ctx context.Context) (bool, error) {
		loc, _, err := h.matchRow(ctx, m)
		if err != nil {
			return false, err
		}
		return loc != nil, nil
	})
}

// WaitForNoRowsOverlay blocks until the widget's "no rows" overlay is shown.
func (h *Harness) WaitForNoRowsOverlay(ctx context.Context) error {
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, "no-rows overlay visible", func(ctx context.Context) (bool, error) {
		root, err := h.root(ctx)
		if err != nil {
			return false, err
		}
		return h.overlayVisible(ctx, root, selNoRowsOverlay), nil
	})
}

// waitForCellEdit blocks until the cell enters edit mode (an editor
// sub-element appears or the editing class is set).
func (h *Harness) waitForCellEdit(ctx context.Context, m RowMatcher, columnID string) error {
	condition := fmt.Sprintf("cell %s/%s in edit mode", m, columnID)
	return h.poll(ctx, h.cfg.Timeouts.CellEdit, condition, func(ctx context.Context) (bool, error) {
		cell, err := h.Cell(ctx, m, columnID)
		if err != nil || cell == nil {
			return false, err
		}
		return h.cellInEditMode(ctx, cell)
	})
}

func (h *Harness) cellInEditMode(ctx context.Context, cell page.Locator) (bool, error) {
	if n, err := cell.Locator(selCellEditorInput).Count(ctx); err != nil {
		return false, err
	} else if n > 0 {
		return true, nil
	}
	class, err := cell.GetAttribute(ctx, "class")
	if err != nil {
		return false, err
	}
	return hasClass(class, classCellInlineEditing), nil
}

// loadingOverlayVisible applies the overlay heuristic to the loading overlay.
func (h *Harness) loadingOverlayVisible(ctx context.Context, root page.Locator) bool {
	return h.overlayVisible(ctx, root, selLoadingOverlay)
}

// overlayVisible implements the two-tier overlay heuristic: prefer the
// explicit active-panel marker when the widget uses one, otherwise fall back
// to raw visibility of the overlay element. The marker is trusted only when
// the widget renders marker panels at all; some builds mount overlay
// wrappers bare. Transient errors from either check are swallowed as "not
// visible" since overlays can be mid-transition.
func (h *Harness) overlayVisible(ctx context.Context, root page.Locator, overlaySelector string) bool {
	if panels, err := root.Locator(selOverlayPanel).Count(ctx); err == nil && panels > 0 {
		active := root.Locator(selOverlayPanelActive + " " + overlaySelector)
		if n, err := active.Count(ctx); err == nil {
			return n > 0
		}
	}

	visible, err := root.Locator(overlaySelector).First().IsVisible(ctx)
	if err != nil {
		h.logger.Debug("Overlay visibility check failed, treating as not visible",
			zap.String("overlay", overlaySelector), zap.Error(err))
		return false
	}
	return visible
}

func (h *Harness) visibleRowCount(ctx context.Context) (int, error) {
	root, err := h.root(ctx)
	if err != nil {
		return 0, err
	}
	return root.Locator(visibleRowsSelector()).Count(ctx)
}

// settle pauses for one scroll-timeout beat, honoring cancellation. Used
// between steps that let the widget re-render.
func (h *Harness) settle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(h.cfg.Timeouts.Scroll):
		return nil
	}
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
