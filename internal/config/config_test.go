package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestLoadSettingsCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), AppDirName, SettingsFileName)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *s != *withPath(DefaultSettings(), path) {
		t.Fatalf("settings = %+v, want defaults", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default settings file not created: %v", err)
	}
}

func TestLoadSettingsFallsBackOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if !s.UseNotifications || !s.WatchConfigFile {
		t.Fatalf("settings = %+v, want defaults", s)
	}
}

func TestSettingsSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	s.UseNotifications = false
	s.NotifyOnLaunch = true
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.UseNotifications || !again.NotifyOnLaunch {
		t.Fatalf("reloaded settings = %+v", again)
	}
}

func withPath(s *Settings, path string) *Settings {
	s.settingsPath = path
	return s
}

func TestShouldReload(t *testing.T) {
	path := filepath.Clean("/cfg/Appkeys/hotkeys.json")
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename onto", fsnotify.Event{Name: "hotkeys.json", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: filepath.Clean("/cfg/Appkeys/settings.json"), Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Clean("/cfg/Appkeys/.hotkeys-123.tmp"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldReload(path, BindingsFileName, tt.event); got != tt.want {
				t.Fatalf("shouldReload = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWatcherDebouncesSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), BindingsFileName)
	changes := make(chan struct{}, 10)
	w, err := NewWatcher(path, 50*time.Millisecond, func() { changes <- struct{}{} })
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	p := NewFilePersister(path)
	for i := 0; i < 3; i++ {
		if err := p.Save(nil); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification")
	}
	select {
	case <-changes:
		t.Fatal("burst of saves produced more than one notification")
	case <-time.After(300 * time.Millisecond):
	}
}
