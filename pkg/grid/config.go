// pkg/grid/config.go
package grid

import (
	"context"
	"time"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// Pin is a column pinning position.
type Pin string

const (
	PinNone  Pin = "none"
	PinLeft  Pin = "left"
	PinRight Pin = "right"
)

// CellExtractor reads a value out of a located cell (or a sub-element of
// one). The returned string is normalized by the harness afterwards.
type CellExtractor func(ctx context.Context, cell page.Locator) (string, error)

// Column declares metadata for one grid column.
type Column struct {
	// ID is the widget's column id (col-id attribute). Required, unique.
	ID string
	// DisplayName is the human-facing header label, used in diagnostics only.
	DisplayName string
	// Pinned records the pinning position. Informational; cell addressing
	// works across pinned containers regardless.
	Pinned Pin
	// Type is a free-form column type hint (informational).
	Type string
	// ValueExtractor, when set, overrides every other extraction strategy
	// for this column.
	ValueExtractor CellExtractor
}

// CellRenderer configures extraction for a custom-rendered column: a
// sub-element address under the cell plus an optional extraction function.
// When Extract is nil the sub-element's normalized text is used.
type CellRenderer struct {
	Selector string
	Extract  CellExtractor
}

// Timeouts bounds the harness's waiting behavior. A zero field means "use the
// default"; negative values are rejected at construction.
type Timeouts struct {
	// Ready bounds structural readiness waits (root + header + overlay gone).
	Ready time.Duration
	// RowLoad bounds row presence/count waits and retried row assertions.
	RowLoad time.Duration
	// CellEdit bounds waits for a cell to enter edit mode.
	CellEdit time.Duration
	// Scroll is the pause between virtual-scroll steps, not an overall bound.
	Scroll time.Duration
}

// DefaultTimeouts are merged into any unset timeout field at construction.
var DefaultTimeouts = Timeouts{
	Ready:    30 * time.Second,
	RowLoad:  10 * time.Second,
	CellEdit: 5 * time.Second,
	Scroll:   50 * time.Millisecond,
}

// Config identifies one grid instance. Construct it once per harness; the
// harness merges defaults in and never mutates it afterwards.
type Config struct {
	// Address resolves the grid root: a structural selector when it starts
	// with a selector sigil ('.', '#', '['), otherwise a test-identifier
	// attribute value with a literal-selector fallback.
	Address string
	// Columns optionally declares column metadata. Columns not declared here
	// are still readable; their values come from the built-in renderer
	// heuristics.
	Columns []Column
	// CellRenderers maps column ids to custom renderer configurations.
	CellRenderers map[string]CellRenderer
	// Timeouts bounds waits. Zero fields take DefaultTimeouts.
	Timeouts Timeouts
}

// normalized validates the config and returns a copy with defaults merged in.
// Normalizing an already-normalized config is the identity.
func (c Config) normalized() (Config, error) {
	if c.Address == "" {
		return Config{}, configErrorf("missing address")
	}

	seen := make(map[string]struct{}, len(c.Columns))
	for _, col := range c.Columns {
		if col.ID == "" {
			return Config{}, configErrorf("invalid column id")
		}
		if _, dup := seen[col.ID]; dup {
			return Config{}, configErrorf("duplicate column id %q", col.ID)
		}
		seen[col.ID] = struct{}{}
	}

	var err error
	if c.Timeouts.Ready, err = mergeTimeout("ready", c.Timeouts.Ready, DefaultTimeouts.Ready); err != nil {
		return Config{}, err
	}
	if c.Timeouts.RowLoad, err = mergeTimeout("rowLoad", c.Timeouts.RowLoad, DefaultTimeouts.RowLoad); err != nil {
		return Config{}, err
	}
	if c.Timeouts.CellEdit, err = mergeTimeout("cellEdit", c.Timeouts.CellEdit, DefaultTimeouts.CellEdit); err != nil {
		return Config{}, err
	}
	if c.Timeouts.Scroll, err = mergeTimeout("scroll", c.Timeouts.Scroll, DefaultTimeouts.Scroll); err != nil {
		return Config{}, err
	}

	// Copy the mutable members so later caller mutations cannot leak in.
	c.Columns = append([]Column(nil), c.Columns...)
	if c.CellRenderers != nil {
		renderers := make(map[string]CellRenderer, len(c.CellRenderers))
		for id, r := range c.CellRenderers {
			renderers[id] = r
		}
		c.CellRenderers = renderers
	}
	return c, nil
}

func mergeTimeout(field string, v, def time.Duration) (time.Duration, error) {
	if v < 0 {
		return 0, configErrorf("invalid timeout: %s", field)
	}
	if v == 0 {
		return def, nil
	}
	return v, nil
}

// column returns the declared metadata for a column id, if any.
func (c Config) column(id string) (Column, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}
