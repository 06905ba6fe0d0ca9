//go:build !linux

package system

// HasPortalSupport is only meaningful on Linux.
func HasPortalSupport() bool {
	return false
}
