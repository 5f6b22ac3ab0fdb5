//go:build darwin && cgo

package power

/*
#cgo LDFLAGS: -framework IOKit
#include <IOKit/IOKitLib.h>
#include <IOKit/pwr_mgt/IOPMLib.h>
*/
import "C"

import "fmt"

type iokitService struct{}

func newService() Service {
	return iokitService{}
}

// Open looks up the root power domain. A null port means the lookup failed.
func (iokitService) Open() (Handle, error) {
	port := C.IOPMFindPowerManagement(C.mach_port_t(0))
	if port == 0 {
		return nil, ErrUnavailable
	}
	return &iokitHandle{port: port}, nil
}

type iokitHandle struct {
	port C.io_connect_t
}

func (h *iokitHandle) RequestSleep() error {
	if ret := C.IOPMSleepSystem(h.port); ret != 0 {
		return fmt.Errorf("IOPMSleepSystem returned 0x%x", uint32(ret))
	}
	return nil
}

func (h *iokitHandle) Close() error {
	if ret := C.IOServiceClose(h.port); ret != 0 {
		return fmt.Errorf("IOServiceClose returned 0x%x", uint32(ret))
	}
	return nil
}
