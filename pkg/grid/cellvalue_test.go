// pkg/grid/cellvalue_test.go
package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gridwright/internal/gridtest"
	"github.com/xkilldash9x/gridwright/pkg/page"
)

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a b c", normalizeText("  a \n b\t c  "))
	assert.Equal(t, "", normalizeText("   "))
	assert.Equal(t, "x", normalizeText("x"))
}

func TestNormValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice smith", normValue("  Alice   SMITH "))
	assert.Equal(t, "", normValue(""))
}

func TestExtractCellValueTextFallback(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	f.addRow(0, "r1", map[string]string{"name": "  Alice \n Smith "})
	h := f.newHarness(t)

	v, err := h.GetCellValue(context.Background(), ByViewportIndex(0), "name")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", v)
}

func TestExtractCellValueBuiltinRenderers(t *testing.T) {
	t.Parallel()

	f := newFixture("done", "link", "qty", "tag")
	row := f.addRow(0, "r1", map[string]string{"done": "", "link": "", "qty": "", "tag": ""})

	checkbox := gridtest.E("input", map[string]string{"type": "checkbox"})
	checkbox.Checked = true
	f.cell(row, "done").Append(checkbox)

	link := gridtest.E("a", map[string]string{"href": "/orders/1"})
	link.Text = "Order #1"
	f.cell(row, "link").Append(link)

	input := gridtest.E("input", map[string]string{"type": "text"})
	input.Value = "12"
	f.cell(row, "qty").Append(input)

	badge := gridtest.E("span", map[string]string{"class": "badge"})
	badge.Text = "URGENT"
	f.cell(row, "tag").Append(badge)

	h := f.newHarness(t)
	ctx := context.Background()

	tests := []struct {
		column string
		want   string
	}{
		{"done", "true"},
		{"link", "Order #1"},
		{"qty", "12"},
		{"tag", "URGENT"},
	}
	for _, tt := range tests {
		v, err := h.GetCellValue(ctx, ByViewportIndex(0), tt.column)
		require.NoError(t, err, tt.column)
		assert.Equal(t, tt.want, v, tt.column)
	}
}

// A checkbox cell must read as checked state even though a checkbox also
// matches the generic input heuristic.
func TestExtractCellValueCheckboxBeforeInput(t *testing.T) {
	t.Parallel()

	f := newFixture("done")
	row := f.addRow(0, "r1", map[string]string{"done": ""})
	checkbox := gridtest.E("input", map[string]string{"type": "checkbox"})
	checkbox.Value = "on"
	f.cell(row, "done").Append(checkbox)
	h := f.newHarness(t)

	v, err := h.GetCellValue(context.Background(), ByViewportIndex(0), "done")
	require.NoError(t, err)
	assert.Equal(t, "false", v)
}

func TestExtractCellValueRendererConfig(t *testing.T) {
	t.Parallel()

	f := newFixture("owner")
	row := f.addRow(0, "r1", map[string]string{"owner": "ignored"})
	avatar := gridtest.E("span", map[string]string{"class": "avatar-name"})
	avatar.Text = "Alice"
	f.cell(row, "owner").Append(avatar)

	h := f.newHarness(t, func(c *Config) {
		c.CellRenderers = map[string]CellRenderer{
			"owner": {Selector: ".avatar-name"},
		}
	})

	v, err := h.GetCellValue(context.Background(), ByViewportIndex(0), "owner")
	require.NoError(t, err)
	assert.Equal(t, "Alice", v)
}

func TestExtractCellValueColumnExtractorWins(t *testing.T) {
	t.Parallel()

	f := newFixture("owner")
	row := f.addRow(0, "r1", map[string]string{"owner": "text value"})
	badge := gridtest.E("span", map[string]string{"class": "badge"})
	badge.Text = "badge value"
	f.cell(row, "owner").Append(badge)

	h := f.newHarness(t, func(c *Config) {
		c.Columns = []Column{{
			ID: "owner",
			ValueExtractor: func(ctx context.Context, cell page.Locator) (string, error) {
				return cell.GetAttribute(ctx, "col-id")
			},
		}}
		// A renderer config for the same column must lose to the extractor.
		c.CellRenderers = map[string]CellRenderer{"owner": {Selector: ".badge"}}
	})

	v, err := h.GetCellValue(context.Background(), ByViewportIndex(0), "owner")
	require.NoError(t, err)
	assert.Equal(t, "owner", v)
}

func TestGetCellValueMissingColumn(t *testing.T) {
	t.Parallel()

	f := newFixture("name")
	f.addRow(0, "r1", map[string]string{"name": "Alice"})
	h := f.newHarness(t)

	_, err := h.GetCellValue(context.Background(), ByViewportIndex(0), "absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no cell for column "absent"`)
}
