// internal/gridtest/selector_test.go
package gridtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	return E("body", nil,
		E("div", map[string]string{"class": "ag-root-wrapper", "data-testid": "grid"},
			E("div", map[string]string{"class": "ag-header"},
				E("div", map[string]string{"class": "ag-header-cell", "col-id": "name"}),
				E("div", map[string]string{"class": "ag-header-cell", "col-id": "qty"}),
			),
			E("div", map[string]string{"class": "ag-center-cols-container"},
				E("div", map[string]string{"class": "ag-row ag-row-selected", "row-index": "0"},
					E("div", map[string]string{"class": "ag-cell", "col-id": "name"}),
					E("input", map[string]string{"type": "checkbox"}),
				),
				E("div", map[string]string{"class": "ag-row", "row-index": "1", "row-id": `x "y"`},
					E("textarea", map[string]string{}),
				),
			),
			E("div", map[string]string{"class": "ag-overlay ag-hidden"},
				E("div", map[string]string{"class": "ag-overlay-loading-wrapper"}),
			),
			E("span", map[string]string{"id": "summary"}),
		),
	)
}

func TestQueryBasicSelectors(t *testing.T) {
	t.Parallel()
	root := sampleTree()

	tests := []struct {
		name     string
		selector string
		want     int
	}{
		{"class", ".ag-row", 2},
		{"compound classes", ".ag-row.ag-row-selected", 1},
		{"tag", "textarea", 1},
		{"id", "#summary", 1},
		{"attr presence", "[row-id]", 1},
		{"attr exact", `[row-index="1"]`, 1},
		{"attr quoted escape", `[row-id="x \"y\""]`, 1},
		{"descendant", ".ag-center-cols-container .ag-cell", 1},
		{"deep descendant", ".ag-root-wrapper .ag-row [col-id]", 1},
		{"comma group", "input, textarea", 2},
		{"not", ".ag-overlay:not(.ag-hidden)", 0},
		{"not non-matching", ".ag-row:not(.ag-row-selected)", 1},
		{"tag with attr", `input[type="checkbox"]`, 1},
		{"no match", ".missing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := query(root, tt.selector)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestQueryAttrValueWithSpace(t *testing.T) {
	t.Parallel()

	row := E("div", map[string]string{"class": "ag-row", "row-id": "a b"})
	root := E("body", nil, E("div", map[string]string{"class": "ag-center-cols-container"}, row))

	// The space inside the quoted value is not a descendant combinator.
	got, err := query(root, `.ag-center-cols-container .ag-row[row-id="a b"]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, row, got[0])

	segments := splitSegments(`.ag-center-cols-container .ag-row[row-id="a b"]`)
	assert.Equal(t, []string{".ag-center-cols-container", `.ag-row[row-id="a b"]`}, segments)
}

func TestQueryDocumentOrder(t *testing.T) {
	t.Parallel()
	root := sampleTree()

	rows, err := query(root, ".ag-row")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].Attr("row-index"))
	assert.Equal(t, "1", rows[1].Attr("row-index"))
}

func TestQueryExcludesScopeNode(t *testing.T) {
	t.Parallel()
	root := sampleTree()

	wrappers, err := query(root, ".ag-root-wrapper")
	require.NoError(t, err)
	require.Len(t, wrappers, 1)

	// Scoped under the wrapper itself, the wrapper does not match.
	nested, err := query(wrappers[0], ".ag-root-wrapper")
	require.NoError(t, err)
	assert.Empty(t, nested)
}

func TestQueryErrors(t *testing.T) {
	t.Parallel()
	root := sampleTree()

	for _, sel := range []string{"", " , ", "[unterminated", ":hover", ".ag-row:not(.x"} {
		_, err := query(root, sel)
		assert.Error(t, err, sel)
	}
}

func TestCompoundTagCaseInsensitive(t *testing.T) {
	t.Parallel()

	n := E("DIV", map[string]string{"class": "x"})
	root := E("body", nil, n)
	got, err := query(root, "div.x")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
