// pkg/grid/matcher.go
package grid

import "fmt"

// RowMatcher is a row-selection criterion. Exactly five implementations
// exist, constructed by the By* functions below; the type is sealed so the
// matching engine's type switch stays exhaustive.
//
// Aria-position, stable-id and viewport-index matchers are "direct": they
// resolve through a single structural address without reading row data.
// Cell-values and predicate matchers are "derived": they require every
// visible row's data to be materialized first.
type RowMatcher interface {
	fmt.Stringer
	rowMatcher()
}

type byAriaPosition struct{ pos int }

// ByAriaPosition matches the row whose aria-rowindex attribute equals pos.
func ByAriaPosition(pos int) RowMatcher { return byAriaPosition{pos: pos} }

func (byAriaPosition) rowMatcher()      {}
func (m byAriaPosition) String() string { return fmt.Sprintf("aria-position=%d", m.pos) }

type byStableID struct{ id string }

// ByStableID matches the row whose stable row-id attribute equals id.
func ByStableID(id string) RowMatcher { return byStableID{id: id} }

func (byStableID) rowMatcher()      {}
func (m byStableID) String() string { return fmt.Sprintf("row-id=%q", m.id) }

type byViewportIndex struct{ index int }

// ByViewportIndex matches the row at the given viewport position (the
// widget's row-index attribute).
func ByViewportIndex(index int) RowMatcher { return byViewportIndex{index: index} }

func (byViewportIndex) rowMatcher()      {}
func (m byViewportIndex) String() string { return fmt.Sprintf("viewport-index=%d", m.index) }

type byCellValues struct{ values map[string]string }

// ByCellValues matches the first visible row whose cells equal every supplied
// column value under normalization (trimmed, whitespace-collapsed,
// case-insensitive; empty and absent are mutually equal).
func ByCellValues(values map[string]string) RowMatcher {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return byCellValues{values: copied}
}

func (byCellValues) rowMatcher()      {}
func (m byCellValues) String() string { return "row matching " + formatCellValues(m.values) }

type byPredicate struct {
	fn   func(RowData) bool
	desc string
}

// ByPredicate matches the first visible row for which fn returns true. The
// optional description is used in diagnostics; it defaults to "<predicate>".
func ByPredicate(fn func(RowData) bool, description ...string) RowMatcher {
	desc := "<predicate>"
	if len(description) > 0 && description[0] != "" {
		desc = description[0]
	}
	return byPredicate{fn: fn, desc: desc}
}

func (byPredicate) rowMatcher()      {}
func (m byPredicate) String() string { return "row matching predicate " + m.desc }

// direct returns the structural row selector for a direct matcher, or ok
// false for derived matchers.
func directSelector(m RowMatcher) (string, bool) {
	switch mm := m.(type) {
	case byAriaPosition:
		return rowByAriaPosition(mm.pos), true
	case byStableID:
		return rowByStableID(mm.id), true
	case byViewportIndex:
		return rowByViewportIndex(mm.index), true
	default:
		return "", false
	}
}
