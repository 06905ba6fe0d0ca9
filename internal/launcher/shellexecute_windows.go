//go:build windows

package launcher

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// shellExecute performs verb (like "open") on file via ShellExecuteW,
// showing the resulting window normally.
func shellExecute(verb, file string) error {
	lpVerb, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return fmt.Errorf("failed to convert verb to UTF16Ptr: %w", err)
	}
	lpFile, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("failed to convert file path to UTF16Ptr: %w", err)
	}
	if err := windows.ShellExecute(0, lpVerb, lpFile, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("ShellExecuteW(%s, %s) failed: %w", verb, file, err)
	}
	return nil
}
