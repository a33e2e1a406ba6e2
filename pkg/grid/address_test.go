// pkg/grid/address_test.go
package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuralAddress(t *testing.T) {
	t.Parallel()

	assert.True(t, structuralAddress(".ag-root-wrapper"))
	assert.True(t, structuralAddress("#main-grid"))
	assert.True(t, structuralAddress(`[data-testid="orders"]`))
	assert.False(t, structuralAddress("orders-grid"))
	assert.False(t, structuralAddress(""))
}

func TestSelectorBuilders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".ag-center-cols-container .ag-row", visibleRowsSelector())
	assert.Equal(t, `.ag-center-cols-container .ag-row[row-id="o-1"]`, rowByStableID("o-1"))
	assert.Equal(t, `.ag-center-cols-container .ag-row[row-index="7"]`, rowByViewportIndex(7))
	assert.Equal(t, `.ag-center-cols-container .ag-row[aria-rowindex="9"]`, rowByAriaPosition(9))
	assert.Equal(t, `.ag-cell[col-id="status"]`, cellByColumn("status"))
	assert.Equal(t, `.ag-row[row-index="2"] .ag-cell[col-id="status"]`, cellByRowIndexAndColumn(2, "status"))
	assert.Equal(t, `.ag-header-cell[col-id="status"]`, headerCellByColumn("status"))
	assert.Equal(t, `.ag-header-group-cell[col-id="contact"]`, headerGroupCellByID("contact"))
	assert.Equal(t, `.ag-header-cell[col-id="status"] .ag-floating-filter-body input`, filterInputByColumn("status"))
	assert.Equal(t, `.ag-details-row[row-index="4"]`, detailRowByIndex(4))
	assert.Equal(t, ".ag-center-cols-container .ag-row.ag-row-selected", selectedRowsSelector())
	assert.Equal(t, ".ag-cell.ag-cell-focus", focusedCellSelector())
}

func TestCSSAttrEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `plain`, cssAttrEscape("plain"))
	assert.Equal(t, `a\"b`, cssAttrEscape(`a"b`))
	assert.Equal(t, `a\\b`, cssAttrEscape(`a\b`))
}
