// pkg/driver/chromedriver/keys.go
package chromedriver

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/chromedp/cdproto/input"
)

// keyDef carries the CDP fields for one physical key.
type keyDef struct {
	key     string
	code    string
	keyCode int64
	text    string
}

// namedKeys covers the non-printable keys the harness dispatches. Printable
// single characters are derived on the fly.
var namedKeys = map[string]keyDef{
	"Enter":      {"Enter", "Enter", 13, "\r"},
	"Escape":     {"Escape", "Escape", 27, ""},
	"Tab":        {"Tab", "Tab", 9, "\t"},
	"Backspace":  {"Backspace", "Backspace", 8, ""},
	"Delete":     {"Delete", "Delete", 46, ""},
	"ArrowUp":    {"ArrowUp", "ArrowUp", 38, ""},
	"ArrowDown":  {"ArrowDown", "ArrowDown", 40, ""},
	"ArrowLeft":  {"ArrowLeft", "ArrowLeft", 37, ""},
	"ArrowRight": {"ArrowRight", "ArrowRight", 39, ""},
	"PageUp":     {"PageUp", "PageUp", 33, ""},
	"PageDown":   {"PageDown", "PageDown", 34, ""},
	"Home":       {"Home", "Home", 36, ""},
	"End":        {"End", "End", 35, ""},
	"F2":         {"F2", "F2", 113, ""},
	"Space":      {" ", "Space", 32, " "},
}

func lookupKey(name string) (keyDef, error) {
	if def, ok := namedKeys[name]; ok {
		return def, nil
	}

	runes := []rune(name)
	if len(runes) != 1 {
		return keyDef{}, fmt.Errorf("chromedriver: unsupported key %q", name)
	}
	r := runes[0]

	def := keyDef{key: string(r), text: string(r), keyCode: int64(unicode.ToUpper(r))}
	switch {
	case unicode.IsLetter(r):
		def.code = "Key" + string(unicode.ToUpper(r))
	case unicode.IsDigit(r):
		def.code = "Digit" + string(r)
	}
	return def, nil
}

// dispatchKey sends a full down/up key sequence, honoring modifier prefixes
// such as "Control+c". Must run inside a chromedp action context.
func dispatchKey(ctx context.Context, combo string) error {
	parts := strings.Split(combo, "+")

	var mods input.Modifier
	for _, m := range parts[:len(parts)-1] {
		switch strings.ToLower(m) {
		case "control", "ctrl":
			mods |= input.ModifierCtrl
		case "shift":
			mods |= input.ModifierShift
		case "alt":
			mods |= input.ModifierAlt
		case "meta", "cmd":
			mods |= input.ModifierMeta
		default:
			return fmt.Errorf("chromedriver: unknown key modifier %q", m)
		}
	}

	def, err := lookupKey(parts[len(parts)-1])
	if err != nil {
		return err
	}

	down := input.DispatchKeyEvent(input.KeyDown).
		WithKey(def.key).
		WithCode(def.code).
		WithWindowsVirtualKeyCode(def.keyCode).
		WithModifiers(mods)
	// Text triggers character input; suppress it for shortcuts so Ctrl+C
	// copies instead of typing "c".
	if def.text != "" && mods&(input.ModifierCtrl|input.ModifierMeta|input.ModifierAlt) == 0 {
		down = down.WithText(def.text)
	}
	if err := down.Do(ctx); err != nil {
		return err
	}

	return input.DispatchKeyEvent(input.KeyUp).
		WithKey(def.key).
		WithCode(def.code).
		WithWindowsVirtualKeyCode(def.keyCode).
		WithModifiers(mods).
		Do(ctx)
}
