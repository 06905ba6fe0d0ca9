//go:build !appkeys_debug

package hotkey

import "log"

// invariantf reports a broken internal invariant. Release builds log and
// carry on; build with -tags appkeys_debug to make these fatal.
func invariantf(format string, args ...any) {
	log.Printf("Engine: INVARIANT VIOLATION: "+format, args...)
}
