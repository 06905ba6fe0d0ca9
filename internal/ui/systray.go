// ==== internal/ui/systray.go ====
package ui

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/getlantern/systray"
)

// MenuCallbacks are invoked from the menu goroutines when an item is clicked.
type MenuCallbacks struct {
	OnShowHotkeys    func()
	OnAddApp         func()
	OnEditHotkey     func()
	OnRemoveApp      func()
	OnViewLastChange func()
	OnOpenConfig     func()
	OnReloadConfig   func()
	OnRestart        func()
	OnQuit           func()

	// OnToggleNotifyOnLaunch receives the new state of the checkbox.
	OnToggleNotifyOnLaunch func(enabled bool)
}

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	appName      string
	version      string
	embeddedIcon []byte
	callbacks    MenuCallbacks
	onReady      func()

	mu             sync.Mutex
	miStatus       *systray.MenuItem
	miViewLastDiff *systray.MenuItem
	miNotifyLaunch *systray.MenuItem
	status         string
	notifyOnLaunch bool
}

// NewSystrayManager creates a new system tray manager. onReady runs once
// the menu has been built.
func NewSystrayManager(appName, version string, embeddedIcon []byte, callbacks MenuCallbacks, onReady func()) *SystrayManager {
	return &SystrayManager{
		appName:      appName,
		version:      version,
		embeddedIcon: embeddedIcon,
		callbacks:    callbacks,
		onReady:      onReady,
		status:       StatusText(0, 0),
	}
}

// Run initializes and starts the system tray. It blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.ready, s.onExit)
}

// Quit asks the tray loop to exit.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// StatusText summarizes the registration state for the status line.
func StatusText(active, bound int) string {
	switch {
	case bound == 0:
		return "No hotkeys configured"
	case active == bound:
		return fmt.Sprintf("%d hotkeys active", active)
	default:
		return fmt.Sprintf("%d of %d hotkeys active", active, bound)
	}
}

// UpdateStatus refreshes the status line and tooltip.
func (s *SystrayManager) UpdateStatus(active, bound int) {
	text := StatusText(active, bound)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = text
	if s.miStatus != nil {
		s.miStatus.SetTitle(text)
		systray.SetTooltip(fmt.Sprintf("%s - %s", s.appName, text))
	}
}

// SetNotifyOnLaunch sets the "Notify on Launch" checkbox. It may be
// called before the tray is ready.
func (s *SystrayManager) SetNotifyOnLaunch(checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyOnLaunch = checked
	if s.miNotifyLaunch == nil {
		return
	}
	if checked {
		s.miNotifyLaunch.Check()
	} else {
		s.miNotifyLaunch.Uncheck()
	}
}

// UpdateViewLastDiffStatus enables or disables the view changes menu item
func (s *SystrayManager) UpdateViewLastDiffStatus(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.miViewLastDiff == nil {
		return
	}
	if enabled {
		s.miViewLastDiff.Enable()
	} else {
		s.miViewLastDiff.Disable()
	}
}

// ready is called by systray once the tray is ready.
func (s *SystrayManager) ready() {
	title := fmt.Sprintf("%s %s", s.appName, s.version)
	systray.SetTitle(s.appName)
	systray.SetTooltip(title)
	if len(s.embeddedIcon) > 0 {
		systray.SetIcon(s.embeddedIcon)
	} else {
		log.Println("Warning: No embedded icon data to set for systray.")
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), s.appName+" version")
	miVersion.Disable()

	s.mu.Lock()
	s.miStatus = systray.AddMenuItem(s.status, "Registered hotkeys")
	s.miStatus.Disable()
	s.mu.Unlock()
	systray.AddSeparator()

	miShow := systray.AddMenuItem("Show Hotkeys...", "List every app and its hotkey")
	miAdd := systray.AddMenuItem("Add App...", "Add an application to launch with a hotkey")
	miEdit := systray.AddMenuItem("Edit Hotkey...", "Record or clear the hotkey of an app")
	miRemove := systray.AddMenuItem("Remove App...", "Remove an application and its hotkey")
	systray.AddSeparator()

	miOpenConfig := systray.AddMenuItem("Open Config File", "Open hotkeys.json in default editor")
	miReloadConfig := systray.AddMenuItem("Reload Configuration", "Re-read hotkeys.json and re-register all hotkeys")
	s.mu.Lock()
	s.miViewLastDiff = systray.AddMenuItem("View Last Reload Changes", "Show what the last reload changed")
	s.miViewLastDiff.Disable()
	miViewLastDiff := s.miViewLastDiff
	s.mu.Unlock()
	s.mu.Lock()
	s.miNotifyLaunch = systray.AddMenuItemCheckbox("Notify on Launch", "Show a notification when a hotkey opens an app", s.notifyOnLaunch)
	miNotifyLaunch := s.miNotifyLaunch
	s.mu.Unlock()
	miRestartApp := systray.AddMenuItem("Restart Application", "Restart "+s.appName)
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	handle := func(item *systray.MenuItem, name string, fn func()) {
		if fn == nil {
			item.Disable()
			return
		}
		go func() {
			for range item.ClickedCh {
				log.Printf("%s menu item clicked.", name)
				fn()
			}
		}()
	}
	handle(miShow, "Show Hotkeys", s.callbacks.OnShowHotkeys)
	handle(miAdd, "Add App", s.callbacks.OnAddApp)
	handle(miEdit, "Edit Hotkey", s.callbacks.OnEditHotkey)
	handle(miRemove, "Remove App", s.callbacks.OnRemoveApp)
	handle(miOpenConfig, "Open Config File", s.callbacks.OnOpenConfig)
	handle(miReloadConfig, "Reload Configuration", s.callbacks.OnReloadConfig)
	handle(miViewLastDiff, "View Last Reload Changes", s.callbacks.OnViewLastChange)
	handle(miRestartApp, "Restart Application", s.callbacks.OnRestart)
	if toggle := s.callbacks.OnToggleNotifyOnLaunch; toggle != nil {
		go func() {
			for range miNotifyLaunch.ClickedCh {
				enabled := !miNotifyLaunch.Checked()
				log.Printf("Notify on Launch toggled to %v.", enabled)
				s.SetNotifyOnLaunch(enabled)
				toggle(enabled)
			}
		}()
	} else {
		miNotifyLaunch.Disable()
	}

	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if s.callbacks.OnQuit != nil {
			s.callbacks.OnQuit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
	if s.onReady != nil {
		s.onReady()
	}
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	log.Println("Systray exiting.")
}

// IsDevMode checks if the application is running in development mode
func IsDevMode() bool {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not get executable path in IsDevMode: %v", err)
		return false
	}
	return isTempBuildPath(execPath, os.TempDir())
}

// isTempBuildPath reports whether execPath looks like a `go run` binary.
func isTempBuildPath(execPath, tempDir string) bool {
	sep := string(filepath.Separator)
	if strings.Contains(execPath, sep+"go-build") {
		return true
	}
	cleanedExecDir := filepath.Clean(filepath.Dir(execPath))
	cleanedTempDir := filepath.Clean(tempDir)
	return cleanedExecDir == cleanedTempDir || strings.HasPrefix(cleanedExecDir, cleanedTempDir+sep)
}

// RestartApplication attempts to restart the current application cleanly.
// beforeExit runs after the new process has started.
func RestartApplication(beforeExit func()) {
	log.Println("Attempting application restart...")
	if IsDevMode() {
		log.Println("Development mode detected. Automatic restart is not supported.")
		ShowAdminNotification(LevelWarn, "Manual Restart Needed", "App running in dev mode. Please stop and run it again manually.")
		return
	}
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Error getting executable path for restart: %v", err)
		ShowAdminNotification(LevelError, "Restart Error", fmt.Sprintf("Failed to get executable path. Error: %v", err))
		return
	}

	cmd := exec.Command(execPath, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if cwd, err := os.Getwd(); err == nil {
		cmd.Dir = cwd
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Error starting new process during restart: %v", err)
		ShowAdminNotification(LevelError, "Restart Error", fmt.Sprintf("Failed to start new application process: %v", err))
		return
	}
	log.Println("Successfully started new process. Exiting current process now.")
	if beforeExit != nil {
		beforeExit()
	}
	systray.Quit()
}
