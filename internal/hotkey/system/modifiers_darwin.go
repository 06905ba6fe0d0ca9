//go:build darwin

package system

import (
	"github.com/TanaroSch/appkeys/internal/binding"
	"golang.design/x/hotkey"
)

func nativeModifiers(mods binding.Modifier) ([]hotkey.Modifier, error) {
	var out []hotkey.Modifier
	if mods.Has(binding.Control) {
		out = append(out, hotkey.ModCtrl)
	}
	if mods.Has(binding.Option) {
		out = append(out, hotkey.ModOption)
	}
	if mods.Has(binding.Shift) {
		out = append(out, hotkey.ModShift)
	}
	if mods.Has(binding.Command) {
		out = append(out, hotkey.ModCmd)
	}
	return out, nil
}

func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	return [][]hotkey.Modifier{modifiers}
}
