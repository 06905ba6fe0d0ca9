//go:build !darwin && !linux && !windows

package launcher

import (
	"fmt"
	"runtime"
)

func activateOrLaunch(string) error {
	return fmt.Errorf("launching applications is not supported on %s", runtime.GOOS)
}

func openFile(string) error {
	return fmt.Errorf("opening files is not supported on %s", runtime.GOOS)
}
