//go:build windows

package ui

import (
	"log"
	"strings"

	"github.com/go-toast/toast"
)

func (n *NotificationManager) platformNotify(level Level, title, message string) error {
	notification := buildToast(n.appName, n.iconFile(), level, title, message)
	if err := notification.Push(); err != nil {
		if strings.Contains(err.Error(), "notification platform is unavailable") {
			log.Println("Toast notification failed: Platform unavailable (Notifications might be disabled in Windows Settings).")
		}
		return err
	}
	return nil
}

// buildToast maps the level onto the toast's sound and display time:
// info is silent, warnings chime, errors chime and stay up longer.
func buildToast(appID, iconPath string, level Level, title, message string) toast.Notification {
	notification := toast.Notification{
		AppID:    appID,
		Title:    title,
		Message:  message,
		Icon:     iconPath,
		Audio:    toast.Silent,
		Duration: toast.Short,
	}
	switch level {
	case LevelWarn:
		notification.Audio = toast.Default
	case LevelError:
		notification.Audio = toast.Default
		notification.Duration = toast.Long
	}
	return notification
}
