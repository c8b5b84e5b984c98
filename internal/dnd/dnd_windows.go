//go:build windows

package dnd

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	ntdll                   = windows.NewLazySystemDLL("ntdll.dll")
	procNtQueryWnfStateData = ntdll.NewProc("NtQueryWnfStateData")
)

// WNF_SHEL_QUIETHOURS_ACTIVE_PROFILE_CHANGED
var quietHoursState = [2]uint32{0xA3BF1F75, 0x0D83063E}

// IsActive queries the Focus Assist profile through WNF.
func (d *Detector) IsActive(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := procNtQueryWnfStateData.Find(); err != nil {
		return false, fmt.Errorf("locating NtQueryWnfStateData: %w", err)
	}

	var changeStamp uint32
	buf := make([]byte, 4)
	size := uint32(len(buf))

	status, _, _ := procNtQueryWnfStateData.Call(
		uintptr(unsafe.Pointer(&quietHoursState[0])),
		0,
		0,
		uintptr(unsafe.Pointer(&changeStamp)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)),
	)
	if status != 0 {
		return false, fmt.Errorf("NtQueryWnfStateData: status 0x%08x", status)
	}
	return quietHoursActive(buf, size), nil
}
