// pkg/grid/rowdata.go
package grid

import (
	"fmt"
	"sort"
	"strings"
)

// RowData is the read-back value object for one visible row. It is created
// fresh on every read and never cached: under virtualization the DOM is a
// moving target, so a stale snapshot is worse than a re-query.
type RowData struct {
	// ViewportIndex is the widget's row-index attribute: the row's position
	// in the rendered dataset.
	ViewportIndex int
	// AriaPosition is the aria-rowindex attribute (1-based, header included).
	AriaPosition int
	// StableID is the widget's row-id attribute, when present.
	StableID string
	// Cells maps column id to the extracted, raw cell value.
	Cells map[string]string
	// IsGroupRow reports whether the row is a grouping or tree parent row.
	IsGroupRow bool
	// IsExpanded reports whether a group/master row is currently expanded.
	IsExpanded bool
	// GroupLevel is the nesting depth of the row (0 for top level).
	GroupLevel int
}

// SortDirection is a column sort direction.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortEntry records one column of the grid's current sort model.
type SortEntry struct {
	ColumnID  string
	Direction SortDirection
}

// GridState is a point-in-time snapshot of grid-level state. Computed on
// demand, never persisted.
type GridState struct {
	// TotalRows is the dataset size when the widget exposes one (paging
	// panel or status bar); otherwise it falls back to the visible-row count,
	// which undercounts under virtualization.
	TotalRows int
	// VisibleRows is the number of currently materialized rows.
	VisibleRows int
	// SelectedRows is the number of visibly selected rows.
	SelectedRows int
	// IsLoading reports whether the loading overlay is active.
	IsLoading bool
	// SortedBy lists the sorted columns in header order, when any.
	SortedBy []SortEntry
}

// FieldMismatch records one field of a closest-match diagnostic.
type FieldMismatch struct {
	Field    string
	Expected string
	Actual   string
}

// ClosestMatch is a diagnostic-only result describing the visible row that
// came nearest to a failed cell-values lookup. It exists because under
// virtualization "not found" is frequently a near miss, and the mismatch list
// tells the reader whether the locator or the data is wrong.
type ClosestMatch struct {
	Candidate     RowData
	MatchedFields int
	TotalFields   int
	Mismatches    []FieldMismatch
}

func (c *ClosestMatch) describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "closest match (%d/%d fields) at row-index=%d",
		c.MatchedFields, c.TotalFields, c.Candidate.ViewportIndex)
	if c.Candidate.StableID != "" {
		fmt.Fprintf(&sb, " row-id=%q", c.Candidate.StableID)
	}
	for _, m := range c.Mismatches {
		fmt.Fprintf(&sb, "; %s: expected %q, actual %q", m.Field, m.Expected, m.Actual)
	}
	return sb.String()
}

// formatCellValues renders an expected-values map with deterministic key
// order for error messages.
func formatCellValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("cells{")
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%q", k, values[k])
	}
	sb.WriteString("}")
	return sb.String()
}
