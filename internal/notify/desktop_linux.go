//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const expireMillis = 5000

// desktopNotify uses the freedesktop.org notification service.
func desktopNotify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	hints := map[string]dbus.Variant{
		"category": dbus.MakeVariant("transfer.complete"),
	}
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		AppName, uint32(0), opts.IconPath, title, body, []string{}, hints, int32(expireMillis))
	return call.Err
}
