// pkg/grid/data.go
package grid

import (
	"context"
	"fmt"
)

// GetCellValue reads the normalized value of one cell. The row must be
// visible.
func (h *Harness) GetCellValue(ctx context.Context, m RowMatcher, columnID string) (string, error) {
	cell, err := h.requireCell(ctx, m, columnID)
	if err != nil {
		return "", err
	}
	if n, err := cell.Count(ctx); err != nil {
		return "", err
	} else if n == 0 {
		return "", fmt.Errorf("grid: row %s has no cell for column %q", m, columnID)
	}
	return h.extractCellValue(ctx, columnID, cell)
}

// GetRowData reads a fresh snapshot of one visible row, or nil when no
// visible row matches.
func (h *Harness) GetRowData(ctx context.Context, m RowMatcher) (*RowData, error) {
	_, data, err := h.matchRow(ctx, m)
	return data, err
}

// GetAllVisibleRowData reads every currently visible row in viewport order.
// The result is bounded by the virtualization window, not the dataset size.
func (h *Harness) GetAllVisibleRowData(ctx context.Context) ([]RowData, error) {
	_, data, err := h.visibleRows(ctx)
	return data, err
}
