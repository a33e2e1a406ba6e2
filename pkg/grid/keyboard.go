// pkg/grid/keyboard.go
//
// Keyboard-driven navigation, editing and clipboard operations. These are
// modeled as key events at the focused cell, not pointer events, because that
// is how the widget itself listens.
package grid

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/gridwright/pkg/page"
)

// Key names accepted by Press and the navigation helpers.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
	KeyF2         = "F2"
	KeyDelete     = "Delete"
)

// FocusCell gives a cell keyboard focus by clicking it.
func (h *Harness) FocusCell(ctx context.Context, m RowMatcher, columnID string) error {
	return h.ClickCell(ctx, m, columnID)
}

// focusedCell returns the locator for the currently focused cell, or an
// error when no cell holds focus.
func (h *Harness) focusedCell(ctx context.Context) (page.Locator, error) {
	root, err := h.root(ctx)
	if err != nil {
		return nil, err
	}
	cell := root.Locator(focusedCellSelector()).First()
	if n, err := cell.Count(ctx); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("grid: no cell has focus")
	}
	return cell, nil
}

// PressKey dispatches a key (or combination, e.g. "Control+c") at the
// focused cell, repeated count times.
func (h *Harness) PressKey(ctx context.Context, key string, count int) error {
	cell, err := h.focusedCell(ctx)
	if err != nil {
		return err
	}
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if err := cell.Press(ctx, key); err != nil {
			return fmt.Errorf("pressing %q: %w", key, err)
		}
	}
	return nil
}

// Navigate moves focus with a directional or paging key, repeated count
// times.
func (h *Harness) Navigate(ctx context.Context, key string, count int) error {
	switch key {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight,
		KeyPageUp, KeyPageDown, KeyHome, KeyEnd, KeyTab:
	default:
		return fmt.Errorf("grid: %q is not a navigation key", key)
	}
	return h.PressKey(ctx, key, count)
}

// StartEditing puts the focused cell into edit mode with Enter and waits for
// the editor to appear.
func (h *Harness) StartEditing(ctx context.Context) error {
	if err := h.PressKey(ctx, KeyEnter, 1); err != nil {
		return err
	}
	return h.poll(ctx, h.cfg.Timeouts.CellEdit, "focused cell in edit mode", func(ctx context.Context) (bool, error) {
		cell, err := h.focusedCell(ctx)
		if err != nil {
			// Focus can flicker while the editor mounts.
			return false, nil
		}
		return h.cellInEditMode(ctx, cell)
	})
}

// StopEditing leaves edit mode, committing with Enter or discarding with
// Escape.
func (h *Harness) StopEditing(ctx context.Context, commit bool) error {
	key := KeyEscape
	if commit {
		key = KeyEnter
	}

	cell, err := h.focusedCell(ctx)
	if err != nil {
		return err
	}
	editor := cell.Locator(selCellEditorInput).First()
	if n, err := editor.Count(ctx); err == nil && n > 0 {
		return editor.Press(ctx, key)
	}
	return cell.Press(ctx, key)
}

// Clipboard and history operations, dispatched as the widget's standard key
// bindings at the focused cell.

func (h *Harness) CopySelection(ctx context.Context) error  { return h.PressKey(ctx, "Control+c", 1) }
func (h *Harness) CutSelection(ctx context.Context) error   { return h.PressKey(ctx, "Control+x", 1) }
func (h *Harness) PasteSelection(ctx context.Context) error { return h.PressKey(ctx, "Control+v", 1) }
func (h *Harness) Undo(ctx context.Context) error           { return h.PressKey(ctx, "Control+z", 1) }
func (h *Harness) Redo(ctx context.Context) error           { return h.PressKey(ctx, "Control+y", 1) }
