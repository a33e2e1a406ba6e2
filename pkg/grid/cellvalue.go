// pkg/grid/cellvalue.go
//
// Cell value extraction. A prioritized chain of strategies is evaluated in
// strict order: explicit per-column extractor, explicit per-column renderer
// configuration, built-in renderer heuristics, plain text fallback. The first
// strategy whose predicate holds wins, so most cells work with zero
// configuration while fully custom renderers remain expressible.
package grid

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// builtinRenderer recognizes one widely used cell renderer by the presence of
// a characteristic sub-element.
type builtinRenderer struct {
	name     string
	selector string
	read     func(ctx context.Context, el page.Locator) (string, error)
}

// Built-in heuristics, tried in fixed order. The checkbox entry must precede
// the generic input entry or checkboxes would be read as text inputs.
var builtinRenderers = []builtinRenderer{
	{"checkbox", `input[type="checkbox"]`, readCheckedState},
	{"link", "a", readTextContent},
	{"input", "input, textarea", readInputValue},
	{"select", "select", readInputValue},
	{"badge", ".ag-tag, .badge, .tag, .chip", readTextContent},
	{"button", "button", readTextContent},
}

// extractCellValue resolves the value of one located cell for a column. The
// result is always whitespace-normalized.
func (h *Harness) extractCellValue(ctx context.Context, columnID string, cell page.Locator) (string, error) {
	if col, ok := h.cfg.column(columnID); ok && col.ValueExtractor != nil {
		v, err := col.ValueExtractor(ctx, cell)
		if err != nil {
			return "", fmt.Errorf("column %q extractor: %w", columnID, err)
		}
		return normalizeText(v), nil
	}

	if renderer, ok := h.cfg.CellRenderers[columnID]; ok {
		sub := cell.Locator(renderer.Selector).First()
		extract := renderer.Extract
		if extract == nil {
			extract = readTextContent
		}
		v, err := extract(ctx, sub)
		if err != nil {
			return "", fmt.Errorf("column %q renderer %q: %w", columnID, renderer.Selector, err)
		}
		return normalizeText(v), nil
	}

	for _, b := range builtinRenderers {
		sub := cell.Locator(b.selector)
		n, err := sub.Count(ctx)
		if err != nil {
			return "", fmt.Errorf("column %q %s heuristic: %w", columnID, b.name, err)
		}
		if n == 0 {
			continue
		}
		v, err := b.read(ctx, sub.First())
		if err != nil {
			return "", fmt.Errorf("column %q %s heuristic: %w", columnID, b.name, err)
		}
		return normalizeText(v), nil
	}

	v, err := cell.TextContent(ctx)
	if err != nil {
		return "", fmt.Errorf("column %q text content: %w", columnID, err)
	}
	return normalizeText(v), nil
}

func readTextContent(ctx context.Context, el page.Locator) (string, error) {
	return el.TextContent(ctx)
}

func readInputValue(ctx context.Context, el page.Locator) (string, error) {
	return el.InputValue(ctx)
}

func readCheckedState(ctx context.Context, el page.Locator) (string, error) {
	checked, err := el.IsChecked(ctx)
	if err != nil {
		return "", err
	}
	if checked {
		return "true", nil
	}
	return "false", nil
}

// normalizeText collapses internal whitespace runs to a single space and
// trims the ends.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normValue is the comparison normalization for cell values: normalized text,
// case-folded. Absent values normalize to "".
func normValue(s string) string {
	return strings.ToLower(normalizeText(s))
}
