//go:build windows

package main

import (
	"errors"
	"syscall"
	"unsafe"
)

const (
	aboveNormalPriorityClass = 0x00008000

	processPowerThrottling               = 4
	powerThrottlingExecutionSpeed uint32 = 0x1
)

var (
	kernel32                  = syscall.NewLazyDLL("kernel32.dll")
	procGetCurrentProcess     = kernel32.NewProc("GetCurrentProcess")
	procSetPriorityClass      = kernel32.NewProc("SetPriorityClass")
	procSetProcessInformation = kernel32.NewProc("SetProcessInformation")
)

// powerThrottlingState mirrors PROCESS_POWER_THROTTLING_STATE.
type powerThrottlingState struct {
	Version     uint32
	ControlMask uint32
	StateMask   uint32
}

// raisePriority moves the search above normal priority and opts out of
// Efficiency Mode, which otherwise parks the workers on slow cores.
func raisePriority() error {
	handle, _, _ := procGetCurrentProcess.Call()

	var errs []error
	if ret, _, err := procSetPriorityClass.Call(handle, aboveNormalPriorityClass); ret == 0 {
		errs = append(errs, err)
	}

	// SetProcessInformation exists from Windows 8 on.
	if procSetProcessInformation.Find() == nil {
		state := powerThrottlingState{Version: 1, ControlMask: powerThrottlingExecutionSpeed}
		ret, _, err := procSetProcessInformation.Call(
			handle,
			processPowerThrottling,
			uintptr(unsafe.Pointer(&state)),
			unsafe.Sizeof(state),
		)
		if ret == 0 {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
