// Package launcher brings applications to the foreground, starting them
// when they are not running.
package launcher

import (
	"errors"
	"fmt"
	"log"
	"os"
)

// ErrAppNotFound is returned when the application path does not exist.
var ErrAppNotFound = errors.New("application not found")

// ActivateOrLaunch activates the application at appPath, launching it if
// it is not running. Failures are returned, never retried.
func ActivateOrLaunch(appPath string) error {
	if appPath == "" {
		return fmt.Errorf("%w: empty path", ErrAppNotFound)
	}
	if _, err := os.Stat(appPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrAppNotFound, appPath)
		}
		return fmt.Errorf("cannot access application '%s': %w", appPath, err)
	}

	log.Printf("Launcher: activating '%s'", appPath)
	if err := activateOrLaunch(appPath); err != nil {
		return fmt.Errorf("failed to activate '%s': %w", appPath, err)
	}
	return nil
}

// OpenFile opens filePath with the default application for its type.
func OpenFile(filePath string) error {
	log.Printf("Opening file in default app: %s", filePath)
	if err := openFile(filePath); err != nil {
		log.Printf("Failed to open '%s': %v", filePath, err)
		return err
	}
	return nil
}
