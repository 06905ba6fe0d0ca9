//go:build appkeys_debug

package hotkey

import "fmt"

func invariantf(format string, args ...any) {
	panic(fmt.Sprintf("hotkey engine invariant violated: "+format, args...))
}
