package binding

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRecordingCanceled is returned by ParseCombo for a lone Escape, which
// cancels recording instead of naming a hotkey.
var ErrRecordingCanceled = errors.New("hotkey recording canceled")

// modifierOrder is the order modifiers appear in formatted combos.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{Control, "ctrl"},
	{Option, "alt"},
	{Shift, "shift"},
	{Command, "cmd"},
}

// ParseCombo converts a combination such as "ctrl+alt+v" or "Cmd+Shift+F5"
// into a key code and modifier mask. The key is the last component.
// "option"/"opt" and "alt" name the same modifier, as do "cmd", "command",
// "super" and "win". A lone "escape" yields ErrRecordingCanceled.
func ParseCombo(s string) (uint32, Modifier, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, 0, fmt.Errorf("hotkey combination is empty")
	}

	parts := strings.Split(strings.ToLower(raw), "+")
	keyStr := strings.TrimSpace(parts[len(parts)-1])
	if keyStr == "" {
		// "ctrl++" means the plus key, which has no key code of its own here.
		return 0, 0, fmt.Errorf("missing key in %q", raw)
	}
	keyCode, ok := KeyCodeForName(keyStr)
	if !ok {
		return 0, 0, fmt.Errorf("unsupported key: %s", keyStr)
	}

	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		switch strings.TrimSpace(part) {
		case "ctrl", "control":
			mods |= Control
		case "alt", "option", "opt":
			mods |= Option
		case "shift":
			mods |= Shift
		case "cmd", "command", "super", "win":
			mods |= Command
		default:
			return 0, 0, fmt.Errorf("unsupported modifier: %s", strings.TrimSpace(part))
		}
	}

	if keyCode == KeyEscape && mods == 0 {
		return 0, 0, ErrRecordingCanceled
	}
	return keyCode, mods, nil
}

// FormatCombo is the inverse of ParseCombo.
func FormatCombo(keyCode uint32, mods Modifier) string {
	parts := make([]string, 0, 5)
	for _, m := range modifierOrder {
		if mods.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	name, ok := KeyName(keyCode)
	if !ok {
		name = fmt.Sprintf("0x%x", keyCode)
	}
	parts = append(parts, name)
	return strings.Join(parts, "+")
}

// ValidateCombo checks the recording rules: the key must be known and a
// modifier is required unless the key is a function key.
func ValidateCombo(keyCode uint32, mods Modifier) error {
	if _, ok := KeyName(keyCode); !ok {
		return fmt.Errorf("unknown key code %d", keyCode)
	}
	if !mods.Valid() {
		return fmt.Errorf("invalid modifier mask 0x%x", uint32(mods))
	}
	if mods == 0 && !IsFunctionKey(keyCode) {
		return fmt.Errorf("%s needs at least one modifier", FormatCombo(keyCode, mods))
	}
	return nil
}
