// pkg/grid/masterdetail_test.go
package grid

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gridwright/internal/gridtest"
)

// newNestedGrid builds a self-contained inner grid root with one column and
// the given cell values.
func newNestedGrid(column string, values ...string) *gridtest.Node {
	header := gridtest.E("div", map[string]string{"class": "ag-header"})
	hc := gridtest.E("div", map[string]string{"class": "ag-header-cell", "col-id": column})
	hc.Text = column
	header.Append(hc)

	container := gridtest.E("div", map[string]string{"class": "ag-center-cols-container"})
	for i, v := range values {
		row := gridtest.E("div", map[string]string{
			"class":         "ag-row ag-row-level-0",
			"row-index":     strconv.Itoa(i),
			"aria-rowindex": strconv.Itoa(i + 2),
			"row-id":        "d-" + strconv.Itoa(i),
		})
		cell := gridtest.E("div", map[string]string{"class": "ag-cell", "col-id": column})
		cell.Text = v
		row.Append(cell)
		container.Append(row)
	}
	return gridtest.E("div", map[string]string{"class": "ag-root-wrapper"}, header, container)
}

// addMasterRow appends a master row whose toggle materializes (and removes) a
// detail region hosting the given nested grid.
func (f *fixture) addMasterRow(index int, id, label string, nested *gridtest.Node) *gridtest.Node {
	row := f.addRow(index, id, map[string]string{f.columns[0]: label})
	row.SetAttr("aria-expanded", "false")

	detail := gridtest.E("div", map[string]string{
		"class":     "ag-details-row",
		"row-index": strconv.Itoa(index + 1),
	}, nested)

	contracted := gridtest.E("span", map[string]string{"class": "ag-group-contracted"})
	expanded := gridtest.E("span", map[string]string{"class": "ag-group-expanded ag-hidden"})
	contracted.OnClick = func(*gridtest.Node) {
		row.SetAttr("aria-expanded", "true")
		contracted.AddClass("ag-hidden")
		expanded.RemoveClass("ag-hidden")
		f.container.Append(detail)
	}
	expanded.OnClick = func(*gridtest.Node) {
		row.SetAttr("aria-expanded", "false")
		expanded.AddClass("ag-hidden")
		contracted.RemoveClass("ag-hidden")
		detail.Remove()
	}
	row.Append(contracted)
	row.Append(expanded)
	return row
}

func TestExpandMasterRow(t *testing.T) {
	t.Parallel()

	f := newFixture("order")
	row := f.addMasterRow(0, "m-1", "Order #1", newNestedGrid("sku", "A-100"))
	h := f.newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.ExpandMasterRow(ctx, ByStableID("m-1")))
	assert.Equal(t, "true", row.Attr("aria-expanded"))

	// Idempotent: the detail region is already there.
	clicks := len(f.page.Clicks)
	require.NoError(t, h.ExpandMasterRow(ctx, ByStableID("m-1")))
	assert.Equal(t, clicks, len(f.page.Clicks))

	require.NoError(t, h.CollapseMasterRow(ctx, ByStableID("m-1")))
	assert.Equal(t, "false", row.Attr("aria-expanded"))
}

func TestDetailHarnessReadsNestedGrid(t *testing.T) {
	t.Parallel()

	f := newFixture("order")
	f.addMasterRow(0, "m-1", "Order #1", newNestedGrid("sku", "A-100", "B-200"))
	h := f.newHarness(t)
	ctx := context.Background()

	detail, err := h.DetailHarness(ctx, ByStableID("m-1"))
	require.NoError(t, err)

	data, err := detail.GetAllVisibleRowData(ctx)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, "A-100", data[0].Cells["sku"])
	assert.Equal(t, "B-200", data[1].Cells["sku"])

	v, err := detail.GetCellValue(ctx, ByStableID("d-1"), "sku")
	require.NoError(t, err)
	assert.Equal(t, "B-200", v)
}

func TestDetailHarnessAcceptsConfig(t *testing.T) {
	t.Parallel()

	f := newFixture("order")
	f.addMasterRow(0, "m-1", "Order #1", newNestedGrid("sku", "A-100"))
	h := f.newHarness(t)
	ctx := context.Background()

	detail, err := h.DetailHarness(ctx, ByStableID("m-1"), Config{
		// The address is ignored; the nested root is found structurally.
		Address: "whatever",
		Columns: []Column{{ID: "sku", DisplayName: "SKU"}},
	})
	require.NoError(t, err)

	col, ok := detail.Config().column("sku")
	require.True(t, ok)
	assert.Equal(t, "SKU", col.DisplayName)

	require.NoError(t, detail.ExpectRowContains(ctx, map[string]string{"sku": "a-100"}))
}

func TestDetailHarnessNested(t *testing.T) {
	t.Parallel()

	// A detail grid that itself hosts a master row with its own detail grid.
	inner := newNestedGrid("part", "P-1")
	f := newFixture("order")

	mid := newNestedGrid("sku")
	midContainer := mid.Children[1]
	midRow := gridtest.E("div", map[string]string{
		"class":         "ag-row ag-row-level-0",
		"row-index":     "0",
		"aria-rowindex": "2",
		"row-id":        "mid-1",
		"aria-expanded": "false",
	})
	midCell := gridtest.E("div", map[string]string{"class": "ag-cell", "col-id": "sku"})
	midCell.Text = "A-100"
	midRow.Append(midCell)
	midDetail := gridtest.E("div", map[string]string{"class": "ag-details-row", "row-index": "1"}, inner)
	toggle := gridtest.E("span", map[string]string{"class": "ag-group-contracted"})
	toggle.OnClick = func(*gridtest.Node) {
		midRow.SetAttr("aria-expanded", "true")
		toggle.AddClass("ag-hidden")
		midContainer.Append(midDetail)
	}
	midRow.Append(toggle)
	midContainer.Append(midRow)

	f.addMasterRow(0, "m-1", "Order #1", mid)
	h := f.newHarness(t)
	ctx := context.Background()

	level1, err := h.DetailHarness(ctx, ByStableID("m-1"))
	require.NoError(t, err)
	level2, err := level1.DetailHarness(ctx, ByStableID("mid-1"))
	require.NoError(t, err)

	v, err := level2.GetCellValue(ctx, ByStableID("d-0"), "part")
	require.NoError(t, err)
	assert.Equal(t, "P-1", v)
}
