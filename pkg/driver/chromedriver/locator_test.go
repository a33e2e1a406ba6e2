// pkg/driver/chromedriver/locator_test.go
package chromedriver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorStepChain(t *testing.T) {
	t.Parallel()

	l := (&locator{steps: []step{{Selector: ".ag-root-wrapper", Index: -1}}}).
		Locator(".ag-row").
		Nth(2).
		Locator(".ag-cell").
		First()

	assert.Equal(t, ".ag-root-wrapper >> .ag-row >> nth=2 >> .ag-cell >> nth=0", l.String())
}

func TestLocatorChildDoesNotAliasSteps(t *testing.T) {
	t.Parallel()

	base := &locator{steps: []step{{Selector: ".ag-row", Index: -1}}}
	a := base.Locator(".ag-cell")
	b := base.Locator("input")

	assert.Equal(t, ".ag-row >> .ag-cell", a.String())
	assert.Equal(t, ".ag-row >> input", b.String())
	assert.Equal(t, ".ag-row", base.String())
}

func TestExprEmbedsStepsAndBody(t *testing.T) {
	t.Parallel()

	l := &locator{steps: []step{{Selector: `.ag-row[row-id="a\"b"]`, Index: -1}}}
	expr := l.expr(`el.textContent ?? ""`)

	assert.Contains(t, expr, `"index":-1`)
	assert.Contains(t, expr, "el.textContent")
	assert.Contains(t, expr, "querySelectorAll")
	// The selector survives JSON encoding inside the script.
	assert.True(t, strings.Contains(expr, `row-id=`))
}

func TestCSSAttrEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\"b`, cssAttrEscape(`a"b`))
	assert.Equal(t, `a\\b`, cssAttrEscape(`a\b`))
}
