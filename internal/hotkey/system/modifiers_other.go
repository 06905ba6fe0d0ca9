//go:build !windows && !linux && !darwin

package system

import (
	"errors"

	"github.com/TanaroSch/appkeys/internal/binding"
	"golang.design/x/hotkey"
)

func nativeModifiers(binding.Modifier) ([]hotkey.Modifier, error) {
	return nil, errors.New("hotkeys are not supported on this OS")
}

func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	return [][]hotkey.Modifier{modifiers}
}
