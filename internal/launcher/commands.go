package launcher

import (
	"path/filepath"
	"strings"
)

// darwinOpenArgs activates a running application or launches it.
func darwinOpenArgs(appPath string) []string {
	return []string{"open", "-a", appPath}
}

// linuxDesktopArgs launches a .desktop entry by its id.
func linuxDesktopArgs(appPath string) []string {
	return []string{"gtk-launch", strings.TrimSuffix(filepath.Base(appPath), ".desktop")}
}

// linuxProcessName is the name pgrep and wmctrl match a binary against.
// The kernel truncates process names to 15 bytes.
func linuxProcessName(appPath string) string {
	name := filepath.Base(appPath)
	if len(name) > 15 {
		name = name[:15]
	}
	return name
}

func linuxRunningArgs(appPath string) []string {
	return []string{"pgrep", "-x", linuxProcessName(appPath)}
}

// linuxActivateArgs raises the first window whose WM_CLASS matches.
func linuxActivateArgs(appPath string) []string {
	return []string{"wmctrl", "-x", "-a", filepath.Base(appPath)}
}

func openFileArgs(goos, filePath string) []string {
	switch goos {
	case "darwin":
		return []string{"open", filePath}
	default:
		return []string{"xdg-open", filePath}
	}
}
