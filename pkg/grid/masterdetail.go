// pkg/grid/masterdetail.go
//
// Master/detail support. Expanding a master row materializes a detail region
// hosting a nested grid root. A detail grid is a new harness scoped under
// that region, so nested detail recurses to arbitrary depth with no fixed
// maximum in the data model.
package grid

import (
	"context"
	"fmt"
)

// ExpandMasterRow expands a master row and waits for its detail region to
// materialize. Idempotent.
func (h *Harness) ExpandMasterRow(ctx context.Context, m RowMatcher) error {
	if err := h.ExpandRow(ctx, m); err != nil {
		return err
	}

	_, data, err := h.requireRow(ctx, m)
	if err != nil {
		return err
	}
	root, err := h.root(ctx)
	if err != nil {
		return err
	}

	// The detail region renders as a full-width row at the next viewport
	// index.
	detail := root.Locator(detailRowByIndex(data.ViewportIndex + 1))
	return h.poll(ctx, h.cfg.Timeouts.RowLoad, fmt.Sprintf("detail region for %s", m), func(ctx context.Context) (bool, error) {
		n, err := detail.Count(ctx)
		if err != nil {
			return false, err
		}
		return n > 0, nil
	})
}

// CollapseMasterRow collapses an expanded master row. Idempotent.
func (h *Harness) CollapseMasterRow(ctx context.Context, m RowMatcher) error {
	return h.CollapseRow(ctx, m)
}

// DetailHarness expands a master row if needed and returns a harness scoped
// to the nested grid inside its detail region. The optional config supplies
// column metadata and timeouts for the detail grid; its Address is ignored
// because the nested root is addressed structurally beneath the detail
// region. The returned harness supports the full surface, including further
// DetailHarness calls for deeper nesting.
func (h *Harness) DetailHarness(ctx context.Context, m RowMatcher, cfg ...Config) (*Harness, error) {
	if err := h.ExpandMasterRow(ctx, m); err != nil {
		return nil, err
	}

	_, data, err := h.requireRow(ctx, m)
	if err != nil {
		return nil, err
	}
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	detailRoot := root.Locator(detailRowByIndex(data.ViewportIndex+1) + " " + selRoot).First()

	childCfg := Config{Address: selRoot}
	if len(cfg) > 0 {
		childCfg = cfg[0]
		childCfg.Address = selRoot
	}
	normalized, err := childCfg.normalized()
	if err != nil {
		return nil, err
	}

	return &Harness{
		page:         h.page,
		cfg:          normalized,
		logger:       h.logger.Named("detail"),
		rootOverride: detailRoot,
	}, nil
}
