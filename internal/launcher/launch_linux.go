//go:build linux

package launcher

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"syscall"
)

func activateOrLaunch(appPath string) error {
	if strings.HasSuffix(appPath, ".desktop") {
		return startDetached(linuxDesktopArgs(appPath))
	}

	if isRunning(appPath) {
		args := linuxActivateArgs(appPath)
		err := exec.Command(args[0], args[1:]...).Run()
		if err == nil {
			return nil
		}
		log.Printf("Launcher: could not raise running '%s' (%v), starting it instead", appPath, err)
	}
	return startDetached([]string{appPath})
}

func isRunning(appPath string) bool {
	args := linuxRunningArgs(appPath)
	return exec.Command(args[0], args[1:]...).Run() == nil
}

// startDetached starts args in its own session so it outlives us.
func startDetached(args []string) error {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openFile(filePath string) error {
	return startDetached(openFileArgs(runtime.GOOS, filePath))
}
