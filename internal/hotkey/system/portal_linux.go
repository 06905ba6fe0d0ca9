//go:build linux

package system

import (
	"log"

	"github.com/godbus/dbus/v5"
)

const portalService = "org.freedesktop.portal.Desktop"

// HasPortalSupport reports whether the XDG Desktop Portal service is
// running on the session bus.
func HasPortalSupport() bool {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		log.Printf("D-Bus session bus not available: %v", err)
		return false
	}
	defer conn.Close()

	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, portalService).Store(&hasOwner)
	if err != nil {
		log.Printf("D-Bus: NameHasOwner(%s) failed: %v", portalService, err)
		return false
	}
	return hasOwner
}
