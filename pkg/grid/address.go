// pkg/grid/address.go
//
// The address layer maps logical grid landmarks to structural DOM addresses
// and known attribute names. It is pure and stateless: every function builds a
// selector string, nothing here touches the page. The addresses follow the
// DOM conventions of AG-Grid-style enterprise widgets.
package grid

import (
	"fmt"
	"strings"
)

// Attribute names the widget stamps onto its elements.
const (
	attrRowID        = "row-id"
	attrRowIndex     = "row-index"
	attrAriaRowIndex = "aria-rowindex"
	attrColID        = "col-id"
	attrAriaSort     = "aria-sort"
	attrAriaExpanded = "aria-expanded"
)

// Structural landmarks.
const (
	selRoot            = ".ag-root-wrapper"
	selHeader          = ".ag-header"
	selHeaderCell      = ".ag-header-cell"
	selHeaderGroupCell = ".ag-header-group-cell"
	selHeaderExpand    = ".ag-header-expand-icon:not(.ag-hidden)"

	// Row enumeration is scoped to the center container; pinned containers
	// replicate rows under the same row-index and would double-count.
	selRowContainer = ".ag-center-cols-container"
	selRow          = ".ag-row"
	selCell         = ".ag-cell"

	selLoadingOverlay = ".ag-overlay-loading-wrapper"
	selNoRowsOverlay  = ".ag-overlay-no-rows-wrapper"
	// Overlay panels carry ag-hidden while inactive; absence of the class is
	// the explicit "active" marker preferred over raw visibility checks.
	// Some builds mount overlay wrappers without a panel at all.
	selOverlayPanel       = ".ag-overlay"
	selOverlayPanelActive = ".ag-overlay:not(.ag-hidden)"

	selPagingPanel     = ".ag-paging-panel"
	selPagingSummary   = ".ag-paging-row-summary-panel"
	selStatusBar       = ".ag-status-bar"
	selStatusBarValues = ".ag-status-name-value-value"

	selGroupContracted = ".ag-group-contracted:not(.ag-hidden)"
	selGroupExpanded   = ".ag-group-expanded:not(.ag-hidden)"

	selDetailRow  = ".ag-details-row"
	selRowLoading = ".ag-row-loading"

	selFillHandle        = ".ag-fill-handle"
	selSelectionCheckbox = ".ag-selection-checkbox"
	selCellEditorInput   = "input.ag-cell-edit-input, .ag-cell-editor input, .ag-cell-editor textarea"

	selFloatingFilterInput = ".ag-floating-filter-body input"
)

// State-bearing classes read off row and cell elements.
const (
	classRowSelected       = "ag-row-selected"
	classRowGroup          = "ag-row-group"
	classRowGroupExpanded  = "ag-row-group-expanded"
	classCellInlineEditing = "ag-cell-inline-editing"
	classRowLevelPrefix    = "ag-row-level-"
	classCellFocus         = "ag-cell-focus"
)

// structuralAddress reports whether a user-supplied address should be treated
// as a literal selector rather than a test-identifier attribute value.
func structuralAddress(addr string) bool {
	if addr == "" {
		return false
	}
	switch addr[0] {
	case '.', '#', '[':
		return true
	}
	return false
}

// cssAttrEscape escapes a value for embedding in a double-quoted CSS
// attribute selector.
func cssAttrEscape(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

func visibleRowsSelector() string {
	return selRowContainer + " " + selRow
}

func rowByStableID(id string) string {
	return fmt.Sprintf(`%s %s[%s="%s"]`, selRowContainer, selRow, attrRowID, cssAttrEscape(id))
}

func rowByViewportIndex(index int) string {
	return fmt.Sprintf(`%s %s[%s="%d"]`, selRowContainer, selRow, attrRowIndex, index)
}

func rowByAriaPosition(pos int) string {
	return fmt.Sprintf(`%s %s[%s="%d"]`, selRowContainer, selRow, attrAriaRowIndex, pos)
}

// cellByColumn addresses a cell within an already-located row. Cells of
// pinned columns live outside the row element, so the full-grid form below is
// used when the row's viewport index is known.
func cellByColumn(columnID string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, selCell, attrColID, cssAttrEscape(columnID))
}

// cellByRowIndexAndColumn addresses a cell anywhere under the grid root by
// its row's viewport index and its column id. This form also finds cells in
// pinned-column containers.
func cellByRowIndexAndColumn(rowIndex int, columnID string) string {
	return fmt.Sprintf(`%s[%s="%d"] %s`, selRow, attrRowIndex, rowIndex, cellByColumn(columnID))
}

func headerCellByColumn(columnID string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, selHeaderCell, attrColID, cssAttrEscape(columnID))
}

func headerGroupCellByID(groupID string) string {
	return fmt.Sprintf(`%s[%s="%s"]`, selHeaderGroupCell, attrColID, cssAttrEscape(groupID))
}

func filterInputByColumn(columnID string) string {
	return headerCellByColumn(columnID) + " " + selFloatingFilterInput
}

func detailRowByIndex(rowIndex int) string {
	return fmt.Sprintf(`%s[%s="%d"]`, selDetailRow, attrRowIndex, rowIndex)
}

func selectedRowsSelector() string {
	return fmt.Sprintf("%s %s.%s", selRowContainer, selRow, classRowSelected)
}

func focusedCellSelector() string {
	return selCell + "." + classCellFocus
}
