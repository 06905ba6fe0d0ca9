package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

const (
	// AppDirName is the directory created under the user config dir.
	AppDirName       = "Appkeys"
	BindingsFileName = "hotkeys.json"
	SettingsFileName = "settings.json"
)

// Settings holds the application preferences.
type Settings struct {
	UseNotifications bool `json:"use_notifications"`
	NotifyOnLaunch   bool `json:"notify_on_launch"`
	WatchConfigFile  bool `json:"watch_config_file"`

	// Non-JSON fields (runtime state)
	settingsPath string
}

// DefaultDir returns <UserConfigDir>/Appkeys.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		UseNotifications: true,
		NotifyOnLaunch:   false,
		WatchConfigFile:  true,
	}
}

// GetSettingsPath returns the path the settings were loaded from.
func (s *Settings) GetSettingsPath() string {
	return s.settingsPath
}

// LoadSettings reads settingsPath, creating a default file if none exists.
// A file that cannot be parsed is left alone and the defaults are used.
func LoadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings file '%s': %w", settingsPath, err)
		}
		log.Printf("Settings file '%s' not found. Attempting to create default.", settingsPath)
		if createErr := CreateDefaultSettings(settingsPath); createErr != nil {
			return nil, fmt.Errorf("settings file not found and failed to create default '%s': %w", settingsPath, createErr)
		}
		s := DefaultSettings()
		s.settingsPath = settingsPath
		return s, nil
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, s); err != nil {
		log.Printf("Warning: Failed to parse settings file '%s': %v. Using defaults.", settingsPath, err)
		s = DefaultSettings()
	}
	s.settingsPath = settingsPath
	return s, nil
}

// Save writes the settings back to the file they were loaded from.
func (s *Settings) Save() error {
	if s.settingsPath == "" {
		return fmt.Errorf("settings have no file path")
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.settingsPath, data, 0600)
}

// CreateDefaultSettings writes the default settings unless the file exists.
func CreateDefaultSettings(settingsPath string) error {
	if _, err := os.Stat(settingsPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking settings path '%s': %w", settingsPath, err)
	}

	log.Printf("Creating default settings file at: %s", settingsPath)
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultSettings(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default settings to JSON: %w", err)
	}
	if err := os.WriteFile(settingsPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write default settings file '%s': %w", settingsPath, err)
	}

	log.Printf("Default settings file created successfully.")
	return nil
}
