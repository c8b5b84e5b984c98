package dnd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// showBannersDisabled reads `gsettings get org.gnome.desktop.notifications
// show-banners`. Banners off means DND is on.
func showBannersDisabled(out string) bool {
	return strings.EqualFold(strings.TrimSpace(out), "false")
}

type assertionsFile struct {
	Data []struct {
		StoreAssertionRecords []json.RawMessage `json:"storeAssertionRecords"`
	} `json:"data"`
}

// focusAsserted reads macOS Assertions.json. Any assertion record in the
// first data entry means a Focus mode is active.
func focusAsserted(raw []byte) (bool, error) {
	var f assertionsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return false, fmt.Errorf("decoding assertions: %w", err)
	}
	if len(f.Data) == 0 {
		return false, nil
	}
	return len(f.Data[0].StoreAssertionRecords) > 0, nil
}

// legacyDoNotDisturb reads `defaults -currentHost read
// com.apple.notificationcenterui doNotDisturb`.
func legacyDoNotDisturb(out string) bool {
	return strings.TrimSpace(out) == "1"
}

// quietHoursActive decodes the Focus Assist WNF value:
// 0 off, 1 priority only, 2 alarms only.
func quietHoursActive(buf []byte, size uint32) bool {
	if int(size) < len(buf) {
		buf = buf[:size]
	}
	for _, b := range buf {
		if b != 0 {
			return true
		}
	}
	return false
}

// truthy interprets a D-Bus property value.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.Contains(strings.ToLower(t), "true")
	case int32:
		return t != 0
	case uint32:
		return t != 0
	default:
		return false
	}
}
