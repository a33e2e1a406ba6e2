// pkg/grid/rows.go
//
// Row matching engine. Direct matchers take the fast path: one structural
// query built from the discriminant. Derived matchers take the slow path:
// materialize RowData for every visible row (bounded by the virtualization
// window, not the dataset) and compare. Absence is reported as nil, never as
// an error; the wait and assertion layers decide whether absence is a
// failure.
package grid

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// matchRow resolves a matcher into at most one row locator plus its data.
// (nil, nil, nil) means no visible row matches.
func (h *Harness) matchRow(ctx context.Context, m RowMatcher) (page.Locator, *RowData, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, nil, err
	}

	if sel, ok := directSelector(m); ok {
		loc := root.Locator(sel)
		n, err := loc.Count(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("matching %s: %w", m, err)
		}
		if n == 0 {
			return nil, nil, nil
		}
		row := loc.First()
		data, err := h.readRow(ctx, row)
		if err != nil {
			return nil, nil, fmt.Errorf("reading row for %s: %w", m, err)
		}
		return row, &data, nil
	}

	rows, data, err := h.visibleRows(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range data {
		if rowMatches(m, data[i]) {
			return rows[i], &data[i], nil
		}
	}
	h.logger.Debug("No visible row matched", zap.String("matcher", m.String()), zap.Int("scanned", len(data)))
	return nil, nil, nil
}

func rowMatches(m RowMatcher, row RowData) bool {
	switch mm := m.(type) {
	case byCellValues:
		return matchesCellValues(row, mm.values)
	case byPredicate:
		return mm.fn(row)
	case byAriaPosition:
		return row.AriaPosition == mm.pos
	case byStableID:
		return row.StableID == mm.id
	case byViewportIndex:
		return row.ViewportIndex == mm.index
	}
	return false
}

// matchesCellValues reports whether every supplied column value equals the
// row's value for that column under normalization. Columns absent from
// expected are ignored; an absent cell is treated as the empty string.
func matchesCellValues(row RowData, expected map[string]string) bool {
	for col, want := range expected {
		if normValue(row.Cells[col]) != normValue(want) {
			return false
		}
	}
	return true
}

// visibleRows materializes every currently visible row in viewport order.
// The two slices are parallel.
func (h *Harness) visibleRows(ctx context.Context) ([]page.Locator, []RowData, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, nil, err
	}

	rowSet := root.Locator(visibleRowsSelector())
	n, err := rowSet.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("counting visible rows: %w", err)
	}

	locs := make([]page.Locator, n)
	data := make([]RowData, n)
	for i := 0; i < n; i++ {
		loc := rowSet.Nth(i)
		d, err := h.readRow(ctx, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("reading visible row %d: %w", i, err)
		}
		locs[i] = loc
		data[i] = d
	}

	// The widget appends recycled row elements out of order; viewport index
	// is the display order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return data[order[a]].ViewportIndex < data[order[b]].ViewportIndex
	})
	sortedLocs := make([]page.Locator, n)
	sortedData := make([]RowData, n)
	for i, idx := range order {
		sortedLocs[i] = locs[idx]
		sortedData[i] = data[idx]
	}
	return sortedLocs, sortedData, nil
}

// readRow extracts a fresh RowData from a located row element. Cell reads
// within the row are independent and fan out concurrently.
func (h *Harness) readRow(ctx context.Context, row page.Locator) (RowData, error) {
	var data RowData

	if v, err := row.GetAttribute(ctx, attrRowIndex); err != nil {
		return data, err
	} else if v != "" {
		data.ViewportIndex, _ = strconv.Atoi(v)
	}
	if v, err := row.GetAttribute(ctx, attrAriaRowIndex); err != nil {
		return data, err
	} else if v != "" {
		data.AriaPosition, _ = strconv.Atoi(v)
	}
	var err error
	if data.StableID, err = row.GetAttribute(ctx, attrRowID); err != nil {
		return data, err
	}

	class, err := row.GetAttribute(ctx, "class")
	if err != nil {
		return data, err
	}
	data.IsGroupRow, data.IsExpanded, data.GroupLevel = rowFlagsFromClass(class)
	if !data.IsExpanded {
		// Master rows without the group class still advertise expansion.
		if v, _ := row.GetAttribute(ctx, attrAriaExpanded); v == "true" {
			data.IsExpanded = true
		}
	}

	data.Cells, err = h.readRowCells(ctx, row)
	return data, err
}

// readRowCells extracts every cell value of one row concurrently.
func (h *Harness) readRowCells(ctx context.Context, row page.Locator) (map[string]string, error) {
	if len(h.cfg.Columns) > 0 {
		values := make([]string, len(h.cfg.Columns))
		g, gctx := errgroup.WithContext(ctx)
		for i, col := range h.cfg.Columns {
			g.Go(func() error {
				cell := row.Locator(cellByColumn(col.ID)).First()
				n, err := cell.Count(gctx)
				if err != nil || n == 0 {
					return err
				}
				values[i], err = h.extractCellValue(gctx, col.ID, cell)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		cells := make(map[string]string, len(h.cfg.Columns))
		for i, col := range h.cfg.Columns {
			cells[col.ID] = values[i]
		}
		return cells, nil
	}

	// No declared columns: discover them from the row's own cells.
	cellSet := row.Locator(selCell)
	n, err := cellSet.Count(ctx)
	if err != nil {
		return nil, err
	}

	type extracted struct {
		col   string
		value string
	}
	results := make([]extracted, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			cell := cellSet.Nth(i)
			col, err := cell.GetAttribute(gctx, attrColID)
			if err != nil || col == "" {
				return err
			}
			v, err := h.extractCellValue(gctx, col, cell)
			if err != nil {
				return err
			}
			results[i] = extracted{col: col, value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cells := make(map[string]string, n)
	for _, r := range results {
		if r.col != "" {
			cells[r.col] = r.value
		}
	}
	return cells, nil
}

// rowFlagsFromClass derives group/expansion flags and the nesting level from
// a row element's class list.
func rowFlagsFromClass(class string) (isGroup, isExpanded bool, level int) {
	for _, c := range strings.Fields(class) {
		switch {
		case c == classRowGroup:
			isGroup = true
		case c == classRowGroupExpanded:
			isExpanded = true
		case strings.HasPrefix(c, classRowLevelPrefix):
			if n, err := strconv.Atoi(strings.TrimPrefix(c, classRowLevelPrefix)); err == nil {
				level = n
			}
		}
	}
	return isGroup, isExpanded, level
}

// closestMatch scores every scanned row by how many expected fields it
// matches and returns the best candidate with a per-field mismatch list.
// Ties resolve to the first-seen row. Returns nil when no rows were scanned.
func closestMatch(rows []RowData, expected map[string]string) *ClosestMatch {
	if len(rows) == 0 || len(expected) == 0 {
		return nil
	}

	fields := make([]string, 0, len(expected))
	for k := range expected {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	best := -1
	bestScore := -1
	for i, row := range rows {
		score := 0
		for _, f := range fields {
			if normValue(row.Cells[f]) == normValue(expected[f]) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	candidate := rows[best]
	result := &ClosestMatch{
		Candidate:     candidate,
		MatchedFields: bestScore,
		TotalFields:   len(expected),
	}
	for _, f := range fields {
		if normValue(candidate.Cells[f]) != normValue(expected[f]) {
			result.Mismatches = append(result.Mismatches, FieldMismatch{
				Field:    f,
				Expected: expected[f],
				Actual:   candidate.Cells[f],
			})
		}
	}
	return result
}
