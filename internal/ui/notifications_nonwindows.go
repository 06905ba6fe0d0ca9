//go:build !windows

package ui

import "github.com/gen2brain/beeep"

func (n *NotificationManager) platformNotify(level Level, title, message string) error {
	if level == LevelError {
		return beeep.Alert(title, message, n.iconFile())
	}
	return beeep.Notify(title, message, n.iconFile())
}
