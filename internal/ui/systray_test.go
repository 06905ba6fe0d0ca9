package ui

import (
	"path/filepath"
	"testing"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		active, bound int
		want          string
	}{
		{0, 0, "No hotkeys configured"},
		{3, 3, "3 hotkeys active"},
		{2, 3, "2 of 3 hotkeys active"},
	}
	for _, tt := range tests {
		if got := StatusText(tt.active, tt.bound); got != tt.want {
			t.Fatalf("StatusText(%d, %d) = %q, want %q", tt.active, tt.bound, got, tt.want)
		}
	}
}

func TestIsTempBuildPath(t *testing.T) {
	tmp := filepath.FromSlash("/tmp")
	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(tmp, "go-build123", "b001", "exe", "appkeys"), true},
		{filepath.Join(tmp, "appkeys"), true},
		{filepath.FromSlash("/tmpfoo/appkeys"), false},
		{filepath.FromSlash("/usr/local/bin/appkeys"), false},
	}
	for _, tt := range tests {
		if got := isTempBuildPath(tt.path, tmp); got != tt.want {
			t.Fatalf("isTempBuildPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSetNotifyOnLaunchBeforeReady(t *testing.T) {
	s := NewSystrayManager("Appkeys", "v1.0.0", nil, MenuCallbacks{}, nil)
	s.SetNotifyOnLaunch(true)
	if !s.notifyOnLaunch {
		t.Fatal("checkbox state not kept before the tray is ready")
	}
	s.SetNotifyOnLaunch(false)
	if s.notifyOnLaunch {
		t.Fatal("checkbox state not cleared")
	}
}
