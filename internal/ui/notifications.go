package ui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// NotificationManager handles showing notifications across platforms
type NotificationManager struct {
	mu               sync.RWMutex
	useNotifications bool
	notifyOnLaunch   bool
	appName          string
	embeddedIcon     []byte
	notify           func(level Level, title, message string) error

	iconOnce sync.Once
	iconPath string
}

// NewNotificationManager creates a new notification manager
func NewNotificationManager(useNotifications, notifyOnLaunch bool, appName string, embeddedIcon []byte) *NotificationManager {
	n := &NotificationManager{
		useNotifications: useNotifications,
		notifyOnLaunch:   notifyOnLaunch,
		appName:          appName,
		embeddedIcon:     embeddedIcon,
	}
	n.notify = n.platformNotify
	return n
}

// SetPreferences updates the switches after a settings reload.
func (n *NotificationManager) SetPreferences(useNotifications, notifyOnLaunch bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.useNotifications = useNotifications
	n.notifyOnLaunch = notifyOnLaunch
}

// ShowAdminNotification shows a notification about the application
// itself. Every notification is logged; errors are shown even when
// notifications are turned off.
func (n *NotificationManager) ShowAdminNotification(level Level, title, message string) {
	log.Printf("[%s] %s: %s", level, title, message)

	n.mu.RLock()
	show := n.useNotifications || level == LevelError
	n.mu.RUnlock()
	if !show {
		return
	}
	if err := n.notify(level, title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// ShowLaunchNotification reports a hotkey-triggered activation when
// NotifyOnLaunch is enabled.
func (n *NotificationManager) ShowLaunchNotification(appName string) {
	n.mu.RLock()
	show := n.useNotifications && n.notifyOnLaunch
	n.mu.RUnlock()
	if !show {
		return
	}
	if err := n.notify(LevelInfo, n.appName, "Opening "+appName); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

// iconFile returns the path of the embedded icon written to the temp
// directory, or "" when there is none. The file is written once and
// reused by every notification.
func (n *NotificationManager) iconFile() string {
	n.iconOnce.Do(func() {
		if len(n.embeddedIcon) == 0 {
			return
		}
		path, err := writeIconFile(os.TempDir(), n.appName, n.embeddedIcon)
		if err != nil {
			log.Printf("Warning: Could not write notification icon: %v", err)
			return
		}
		n.iconPath = path
	})
	return n.iconPath
}

// writeIconFile stores icon as <dir>/<appname>-icon.ico, replacing any
// copy left by an earlier run.
func writeIconFile(dir, appName string, icon []byte) (string, error) {
	if len(icon) == 0 {
		return "", fmt.Errorf("cannot write empty icon data")
	}
	path := filepath.Join(dir, strings.ToLower(appName)+"-icon.ico")
	if err := os.WriteFile(path, icon, 0644); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// Global function for simplicity when detailed control isn't needed
var globalNotificationManager *NotificationManager

// InitGlobalNotifications initializes the global notification manager
func InitGlobalNotifications(useNotifications, notifyOnLaunch bool, appName string, embeddedIcon []byte) {
	globalNotificationManager = NewNotificationManager(useNotifications, notifyOnLaunch, appName, embeddedIcon)
}

// GlobalNotifications returns the manager set by InitGlobalNotifications.
func GlobalNotifications() *NotificationManager {
	return globalNotificationManager
}

// ShowAdminNotification is a convenience function for showing notifications
// without directly referencing the notification manager
func ShowAdminNotification(level Level, title, message string) {
	if globalNotificationManager != nil {
		globalNotificationManager.ShowAdminNotification(level, title, message)
	} else {
		log.Printf("Notification not shown (manager not initialized): [%s] %s - %s", level, title, message)
	}
}
