//go:build windows

package power

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type powrprofService struct{}

func newService() Service {
	return powrprofService{}
}

// Open loads powrprof.dll and resolves SetSuspendState. The loaded DLL
// is the handle; Close releases it.
func (powrprofService) Open() (Handle, error) {
	dll, err := windows.LoadDLL("powrprof.dll")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	proc, err := dll.FindProc("SetSuspendState")
	if err != nil {
		dll.Release()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &powrprofHandle{dll: dll, setSuspendState: proc}, nil
}

type powrprofHandle struct {
	dll             *windows.DLL
	setSuspendState *windows.Proc
}

// RequestSleep calls SetSuspendState(hibernate=FALSE, force=FALSE,
// wakeupEventsDisabled=FALSE). A zero return means failure.
func (h *powrprofHandle) RequestSleep() error {
	r, _, err := h.setSuspendState.Call(0, 0, 0)
	if r == 0 {
		return fmt.Errorf("SetSuspendState: %w", err)
	}
	return nil
}

func (h *powrprofHandle) Close() error {
	return h.dll.Release()
}
