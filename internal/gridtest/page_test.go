// internal/gridtest/page_test.go
package gridtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

func newTestPage() (*Page, *Node, *Node) {
	cell := E("div", map[string]string{"class": "ag-cell", "col-id": "name"})
	cell.Text = "Alice"
	row := E("div", map[string]string{"class": "ag-row", "row-index": "0"}, cell)
	container := E("div", map[string]string{"class": "ag-center-cols-container"}, row)
	root := E("div", map[string]string{"class": "ag-root-wrapper", "data-testid": "grid"}, container)
	body := E("body", nil, root)
	return NewPage(body), row, cell
}

func TestLocatorResolution(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPage()
	ctx := context.Background()

	n, err := p.Locator(".ag-row").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.LocatorByTestID("grid").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.Locator(".ag-root-wrapper").Locator(".ag-row").Locator(".ag-cell").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.Locator(".ag-row").Nth(5).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLocatorString(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPage()
	l := p.Locator(".ag-row").First().Locator(".ag-cell")
	assert.Equal(t, ".ag-row >> nth=0 >> .ag-cell", l.String())
}

func TestLocatorReads(t *testing.T) {
	t.Parallel()

	p, row, _ := newTestPage()
	ctx := context.Background()

	v, err := p.Locator(".ag-cell").GetAttribute(ctx, "col-id")
	require.NoError(t, err)
	assert.Equal(t, "name", v)

	v, err = p.Locator(".ag-cell").GetAttribute(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	text, err := p.Locator(".ag-row").TextContent(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Alice")

	visible, err := p.Locator(".ag-cell").IsVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	// Hiding an ancestor hides the subtree.
	p.Update(func() { row.Hidden = true })
	visible, err = p.Locator(".ag-cell").IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	// No match: false without error.
	visible, err = p.Locator(".missing").IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	// Reads on a missing element report an error.
	_, err = p.Locator(".missing").GetAttribute(ctx, "x")
	require.Error(t, err)
}

func TestLocatorEventsAndRecording(t *testing.T) {
	t.Parallel()

	p, row, cell := newTestPage()
	ctx := context.Background()

	var clicked, keyed int
	row.OnClick = func(*Node) { clicked++ }
	row.OnKey = func(_ *Node, key string) {
		if key == "Enter" {
			keyed++
		}
	}

	// Click on the cell bubbles to the row handler.
	require.NoError(t, p.Locator(".ag-cell").Click(ctx))
	assert.Equal(t, 1, clicked)
	require.Len(t, p.Clicks, 1)
	assert.Same(t, cell, p.Clicks[0])

	require.NoError(t, p.Locator(".ag-cell").Press(ctx, "Enter"))
	assert.Equal(t, 1, keyed)
	require.Len(t, p.Keys, 1)

	require.NoError(t, p.Locator(".ag-cell").DragTo(ctx, p.Locator(".ag-row")))
	require.Len(t, p.Drags, 1)
	assert.Same(t, cell, p.Drags[0].From)
	assert.Same(t, row, p.Drags[0].To)
}

func TestLocatorFillAndFormState(t *testing.T) {
	t.Parallel()

	input := E("input", map[string]string{"type": "text"})
	var filled string
	input.OnFill = func(_ *Node, v string) { filled = v }
	body := E("body", nil, input)
	p := NewPage(body)
	ctx := context.Background()

	require.NoError(t, p.Locator("input").Fill(ctx, "hello"))
	assert.Equal(t, "hello", filled)

	v, err := p.Locator("input").InputValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	input.Checked = true
	checked, err := p.Locator("input").IsChecked(ctx)
	require.NoError(t, err)
	assert.True(t, checked)
}

func TestLocatorBoundingBox(t *testing.T) {
	t.Parallel()

	p, row, _ := newTestPage()
	ctx := context.Background()

	box, err := p.Locator(".ag-row").BoundingBox(ctx)
	require.NoError(t, err)
	assert.Positive(t, box.Width)

	p.Update(func() { row.Box = &page.Box{X: 1, Y: 2, Width: 300, Height: 40} })
	box, err = p.Locator(".ag-row").BoundingBox(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, box.Width)
}

func TestLocatorHonorsContext(t *testing.T) {
	t.Parallel()

	p, _, _ := newTestPage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Locator(".ag-row").Count(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, p.Locator(".ag-row").Click(ctx), context.Canceled)
}
