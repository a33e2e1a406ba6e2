// pkg/grid/serverside.go
//
// Server-side row model support. Rows arrive in blocks; while a block is in
// flight the widget renders placeholder "loading" rows.
package grid

import (
	"context"
	"fmt"
)

// WaitForBlockLoad blocks until no placeholder loading rows remain and the
// loading overlay is absent. Call it after a scroll or refresh that triggers
// a block fetch.
func (h *Harness) WaitForBlockLoad(ctx context.Context) error {
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, "row block loaded", func(ctx context.Context) (bool, error) {
		root, err := h.root(ctx)
		if err != nil {
			return false, err
		}
		if n, err := root.Locator(selRowContainer + " " + selRowLoading).Count(ctx); err != nil {
			return false, err
		} else if n > 0 {
			return false, nil
		}
		return !h.loadingOverlayVisible(ctx, root), nil
	})
}

// WaitForNewRows blocks until the visible row count exceeds sinceCount,
// signalling that a scroll or refresh brought a new block in.
func (h *Harness) WaitForNewRows(ctx context.Context, sinceCount int) error {
	condition := fmt.Sprintf("more than %d rows visible", sinceCount)
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, condition, func(ctx context.Context) (bool, error) {
		count, err := h.visibleRowCount(ctx)
		if err != nil {
			return false, err
		}
		return count > sinceCount, nil
	})
}
