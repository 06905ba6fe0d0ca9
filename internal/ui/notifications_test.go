package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNotificationFiltering(t *testing.T) {
	tests := []struct {
		name             string
		useNotifications bool
		notifyOnLaunch   bool
		send             func(n *NotificationManager)
		want             int
	}{
		{"info enabled", true, false, func(n *NotificationManager) { n.ShowAdminNotification(LevelInfo, "t", "m") }, 1},
		{"info disabled", false, false, func(n *NotificationManager) { n.ShowAdminNotification(LevelInfo, "t", "m") }, 0},
		{"warn disabled", false, false, func(n *NotificationManager) { n.ShowAdminNotification(LevelWarn, "t", "m") }, 0},
		{"error always shown", false, false, func(n *NotificationManager) { n.ShowAdminNotification(LevelError, "t", "m") }, 1},
		{"launch off", true, false, func(n *NotificationManager) { n.ShowLaunchNotification("Notes") }, 0},
		{"launch on", true, true, func(n *NotificationManager) { n.ShowLaunchNotification("Notes") }, 1},
		{"launch on but muted", false, true, func(n *NotificationManager) { n.ShowLaunchNotification("Notes") }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotificationManager(tt.useNotifications, tt.notifyOnLaunch, "Appkeys", nil)
			sent := 0
			n.notify = func(Level, string, string) error { sent++; return nil }
			tt.send(n)
			if sent != tt.want {
				t.Fatalf("sent %d notifications, want %d", sent, tt.want)
			}
		})
	}
}

func TestNotificationLevelReachesPlatform(t *testing.T) {
	n := NewNotificationManager(true, true, "Appkeys", nil)
	var levels []Level
	n.notify = func(level Level, _, _ string) error { levels = append(levels, level); return nil }

	n.ShowAdminNotification(LevelError, "t", "m")
	n.ShowAdminNotification(LevelWarn, "t", "m")
	n.ShowLaunchNotification("Notes")

	want := []Level{LevelError, LevelWarn, LevelInfo}
	if len(levels) != len(want) {
		t.Fatalf("levels = %v, want %v", levels, want)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("levels = %v, want %v", levels, want)
		}
	}
}

func TestWriteIconFile(t *testing.T) {
	dir := t.TempDir()
	icon := []byte{0, 0, 1, 0}

	path, err := writeIconFile(dir, "Appkeys", icon)
	if err != nil {
		t.Fatalf("writeIconFile: %v", err)
	}
	if filepath.Base(path) != "appkeys-icon.ico" {
		t.Errorf("icon path = %s", path)
	}
	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, icon) {
		t.Fatalf("icon file = %v, %v; want %v", got, err, icon)
	}

	// A second write replaces the file at the same path.
	again, err := writeIconFile(dir, "Appkeys", icon)
	if err != nil || again != path {
		t.Fatalf("second write = %q, %v; want %q", again, err, path)
	}

	if _, err := writeIconFile(dir, "Appkeys", nil); err == nil {
		t.Error("writeIconFile(nil) returned nil error")
	}
}

func TestIconFileWithoutIcon(t *testing.T) {
	n := NewNotificationManager(true, false, "Appkeys", nil)
	if got := n.iconFile(); got != "" {
		t.Errorf("iconFile() = %q, want empty", got)
	}
}
