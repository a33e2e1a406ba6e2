// pkg/grid/serverside_test.go
package grid

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gridwright/internal/gridtest"
)

func TestWaitForBlockLoad(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	// A block in flight: one placeholder row plus the loading overlay.
	stub := gridtest.E("div", map[string]string{
		"class":     "ag-row ag-row-loading",
		"row-index": "0",
	})
	f.container.Append(stub)
	f.showOverlay(f.loading)
	h := f.newHarness(t)

	timer := time.AfterFunc(120*time.Millisecond, func() {
		f.page.Update(func() {
			stub.Remove()
			f.addRow(0, "r1", map[string]string{"name": "Alice"})
			f.hideOverlay(f.loading)
		})
	})
	defer timer.Stop()

	require.NoError(t, h.WaitForBlockLoad(context.Background()))

	data, err := h.GetAllVisibleRowData(context.Background())
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "Alice", data[0].Cells["name"])
}

func TestWaitForBlockLoadTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	f.container.Append(gridtest.E("div", map[string]string{
		"class":     "ag-row ag-row-loading",
		"row-index": "0",
	}))
	h := f.newHarness(t)

	err := h.WaitForBlockLoad(context.Background())
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "row block loaded", te.Condition)
}

func TestWaitForNewRows(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	f.addRow(0, "r1", map[string]string{"name": "Alice"})
	h := f.newHarness(t)

	timer := time.AfterFunc(120*time.Millisecond, func() {
		f.page.Update(func() {
			f.addRow(1, "r2", map[string]string{"name": "Bob"})
		})
	})
	defer timer.Stop()

	require.NoError(t, h.WaitForNewRows(context.Background(), 1))
}

func TestWaitForNewRowsTimeout(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	f.addRow(0, "r1", map[string]string{"name": "Alice"})
	h := f.newHarness(t)

	err := h.WaitForNewRows(context.Background(), 1)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "more than 1 rows visible", te.Condition)
}
