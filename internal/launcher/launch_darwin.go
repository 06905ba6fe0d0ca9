//go:build darwin

package launcher

import (
	"fmt"
	"os/exec"
	"runtime"
)

func activateOrLaunch(appPath string) error {
	args := darwinOpenArgs(appPath)
	if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
		return fmt.Errorf("%v: %w (%s)", args, err, out)
	}
	return nil
}

func openFile(filePath string) error {
	args := openFileArgs(runtime.GOOS, filePath)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
