package launcher

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestActivateOrLaunchMissingApp(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "Nope.app")} {
		if err := ActivateOrLaunch(path); !errors.Is(err, ErrAppNotFound) {
			t.Fatalf("ActivateOrLaunch(%q) = %v, want ErrAppNotFound", path, err)
		}
	}
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"darwin open", darwinOpenArgs("/Applications/Safari.app"), []string{"open", "-a", "/Applications/Safari.app"}},
		{"desktop entry", linuxDesktopArgs("/usr/share/applications/org.gnome.Nautilus.desktop"), []string{"gtk-launch", "org.gnome.Nautilus"}},
		{"pgrep", linuxRunningArgs("/usr/bin/firefox"), []string{"pgrep", "-x", "firefox"}},
		{"pgrep truncated", linuxRunningArgs("/opt/bin/gnome-system-monitor"), []string{"pgrep", "-x", "gnome-system-mo"}},
		{"wmctrl", linuxActivateArgs("/usr/bin/firefox"), []string{"wmctrl", "-x", "-a", "firefox"}},
		{"open file darwin", openFileArgs("darwin", "/tmp/hotkeys.json"), []string{"open", "/tmp/hotkeys.json"}},
		{"open file linux", openFileArgs("linux", "/tmp/hotkeys.json"), []string{"xdg-open", "/tmp/hotkeys.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Fatalf("args = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
