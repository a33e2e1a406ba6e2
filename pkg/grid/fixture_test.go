// pkg/grid/fixture_test.go
//
// Shared test fixture: an in-memory DOM shaped like the widget's rendered
// output, driven through the gridtest fake page.
package grid

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/xkilldash9x/gridwright/internal/gridtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testTimeouts keeps polling loops short enough for unit tests while leaving
// room for the asynchronous fixtures to fire.
var testTimeouts = Timeouts{
	Ready:    2 * time.Second,
	RowLoad:  400 * time.Millisecond,
	CellEdit: 400 * time.Millisecond,
	Scroll:   5 * time.Millisecond,
}

type fixture struct {
	page      *gridtest.Page
	columns   []string
	root      *gridtest.Node
	header    *gridtest.Node
	container *gridtest.Node
	// Overlay wrapper nodes; toggling ag-hidden activates them.
	loading *gridtest.Node
	noRows  *gridtest.Node
}

// newFixture builds a minimal grid DOM: header cells for the given columns,
// an empty row container, and both overlays hidden.
func newFixture(columns ...string) *fixture {
	f := &fixture{columns: columns}

	f.header = gridtest.E("div", map[string]string{"class": "ag-header"})
	for _, c := range columns {
		cell := gridtest.E("div", map[string]string{"class": "ag-header-cell", "col-id": c})
		cell.Text = c
		f.header.Append(cell)
	}

	f.container = gridtest.E("div", map[string]string{"class": "ag-center-cols-container"})

	loadingPanel := gridtest.E("div", map[string]string{"class": "ag-overlay-loading-wrapper"})
	loadingPanel.Text = "Loading..."
	f.loading = gridtest.E("div", map[string]string{"class": "ag-overlay ag-hidden"}, loadingPanel)

	noRowsPanel := gridtest.E("div", map[string]string{"class": "ag-overlay-no-rows-wrapper"})
	noRowsPanel.Text = "No Rows To Show"
	f.noRows = gridtest.E("div", map[string]string{"class": "ag-overlay ag-hidden"}, noRowsPanel)

	f.root = gridtest.E("div", map[string]string{
		"class":       "ag-root-wrapper",
		"data-testid": "orders-grid",
	}, f.header, f.container, f.loading, f.noRows)

	body := gridtest.E("body", nil, f.root)
	f.page = gridtest.NewPage(body)
	return f
}

// addRow appends a leaf row with plain text cells, in fixture column order.
// Call inside page.Update once the page is in use.
func (f *fixture) addRow(index int, id string, cells map[string]string) *gridtest.Node {
	attrs := map[string]string{
		"class":         "ag-row ag-row-level-0",
		"row-index":     strconv.Itoa(index),
		"aria-rowindex": strconv.Itoa(index + 2),
	}
	if id != "" {
		attrs["row-id"] = id
	}
	row := gridtest.E("div", attrs)
	for _, col := range f.columns {
		v, ok := cells[col]
		if !ok {
			continue
		}
		cell := gridtest.E("div", map[string]string{"class": "ag-cell", "col-id": col})
		cell.Text = v
		row.Append(cell)
	}
	f.container.Append(row)
	return row
}

func (f *fixture) cell(row *gridtest.Node, columnID string) *gridtest.Node {
	for _, c := range row.Children {
		if c.Attr("col-id") == columnID {
			return c
		}
	}
	return nil
}

func (f *fixture) headerCell(columnID string) *gridtest.Node {
	for _, c := range f.header.Children {
		if c.Attr("col-id") == columnID {
			return c
		}
	}
	return nil
}

func (f *fixture) showOverlay(overlay *gridtest.Node) { overlay.RemoveClass("ag-hidden") }
func (f *fixture) hideOverlay(overlay *gridtest.Node) { overlay.AddClass("ag-hidden") }

// newHarness builds a harness over the fixture with test timeouts. mutate
// hooks let individual tests adjust the config before validation.
func (f *fixture) newHarness(t *testing.T, mutate ...func(*Config)) *Harness {
	t.Helper()
	cfg := Config{Address: ".ag-root-wrapper", Timeouts: testTimeouts}
	for _, m := range mutate {
		m(&cfg)
	}
	h, err := New(f.page, cfg)
	require.NoError(t, err)
	return h
}
