package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/TanaroSch/appkeys/internal/app"
	"github.com/TanaroSch/appkeys/internal/config"
	"github.com/TanaroSch/appkeys/internal/hotkey"
	"github.com/TanaroSch/appkeys/internal/hotkey/system"
)

const version = "v1.0.0"

func main() {
	log.Printf("Appkeys %s starting...", version)

	dir, err := config.DefaultDir()
	if err != nil {
		log.Fatalf("Error locating config directory: %v", err)
	}

	// Load configuration
	settings, err := config.LoadSettings(filepath.Join(dir, config.SettingsFileName))
	if err != nil {
		log.Fatalf("Error loading settings: %v", err)
	}
	persister := config.NewFilePersister(filepath.Join(dir, config.BindingsFileName))

	var backend hotkey.Backend
	if b, err := system.SelectBackend(); err != nil {
		log.Printf("Warning: %v. Hotkeys will not be registered.", err)
	} else {
		backend = b
	}

	// Create and run the application
	application := app.New(settings, persister, backend, version)

	// Handle any panics during execution
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	application.Run()
}
