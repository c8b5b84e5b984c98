//go:build linux

package dnd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"
)

// IsActive checks GNOME first, then KDE Plasma, then the freedesktop
// notification inhibitor.
func (d *Detector) IsActive(ctx context.Context) (bool, error) {
	var errs []error

	out, err := exec.CommandContext(ctx, "gsettings", "get", "org.gnome.desktop.notifications", "show-banners").Output()
	if err == nil {
		return showBannersDisabled(string(out)), nil
	}
	errs = append(errs, fmt.Errorf("gsettings: %w", err))

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		errs = append(errs, fmt.Errorf("session bus: %w", err))
		return false, errors.Join(errs...)
	}
	defer conn.Close()

	active, err := getProperty(ctx, conn, "org.kde.plasmashell", "/org/kde/notifications", "org.kde.NotificationManager", "DoNotDisturb")
	if err == nil {
		return active, nil
	}
	errs = append(errs, fmt.Errorf("kde notification manager: %w", err))

	active, err = getProperty(ctx, conn, "org.freedesktop.Notifications", "/org/freedesktop/Notifications", "org.freedesktop.Notifications", "Inhibited")
	if err == nil {
		return active, nil
	}
	errs = append(errs, fmt.Errorf("freedesktop notifications: %w", err))

	d.log.Debug().Err(errors.Join(errs...)).Msg("No DND source available")
	return false, errors.Join(errs...)
}

func getProperty(ctx context.Context, conn *dbus.Conn, dest string, path dbus.ObjectPath, iface, prop string) (bool, error) {
	var v dbus.Variant
	call := conn.Object(dest, path).CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, prop)
	if err := call.Store(&v); err != nil {
		return false, err
	}
	return truthy(v.Value()), nil
}
