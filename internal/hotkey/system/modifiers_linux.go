//go:build linux

package system

import (
	"github.com/TanaroSch/appkeys/internal/binding"
	"golang.design/x/hotkey"
)

// X11 lock masks that commonly interfere with XGrabKey.
// CapsLock is LockMask (1<<1) and NumLock is often Mod2.
const (
	linuxCapsLockMask hotkey.Modifier = 1 << 1
)

// nativeModifiers maps Option to Mod1 (Alt) and Command to Mod4 (Super).
func nativeModifiers(mods binding.Modifier) ([]hotkey.Modifier, error) {
	var out []hotkey.Modifier
	if mods.Has(binding.Control) {
		out = append(out, hotkey.ModCtrl)
	}
	if mods.Has(binding.Option) {
		out = append(out, hotkey.Mod1)
	}
	if mods.Has(binding.Shift) {
		out = append(out, hotkey.ModShift)
	}
	if mods.Has(binding.Command) {
		out = append(out, hotkey.Mod4)
	}
	return out, nil
}

// expandModifiers returns the combination itself first, followed by the
// NumLock/CapsLock variants so the hotkey still triggers with locks on.
func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	base := append([]hotkey.Modifier(nil), modifiers...)
	withNum := append(append([]hotkey.Modifier(nil), modifiers...), hotkey.Mod2)
	withCaps := append(append([]hotkey.Modifier(nil), modifiers...), linuxCapsLockMask)
	withBoth := append(append([]hotkey.Modifier(nil), modifiers...), hotkey.Mod2, linuxCapsLockMask)

	return [][]hotkey.Modifier{base, withNum, withCaps, withBoth}
}
