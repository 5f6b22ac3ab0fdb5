package power

import "errors"

// ErrUnavailable is returned by Service.Open when the platform has no
// reachable power-management service.
var ErrUnavailable = errors.New("power management service unavailable")

// Handle is an open connection to the power-management service.
type Handle interface {
	// RequestSleep asks the OS to put the machine to sleep now.
	RequestSleep() error

	// Close releases the connection.
	Close() error
}

// Service opens connections to the platform power-management service.
// See power_darwin.go, power_linux.go, power_windows.go, power_other.go.
type Service interface {
	Open() (Handle, error)
}

// Trigger requests an immediate system sleep through a Service.
type Trigger struct {
	svc Service
}

// NewTrigger returns a Trigger backed by svc.
func NewTrigger(svc Service) *Trigger {
	return &Trigger{svc: svc}
}

// Default returns a Trigger backed by the platform service.
func Default() *Trigger {
	return NewTrigger(newService())
}

// Sleep acquires a handle, requests sleep and releases the handle.
// Failure to acquire is a silent no-op and the result of the sleep
// request is not observed; the OS decides whether the machine suspends.
func (t *Trigger) Sleep() {
	h, err := t.svc.Open()
	if err != nil || h == nil {
		return
	}
	defer h.Close()

	_ = h.RequestSleep()
}

// SleepNow puts the host to sleep using the platform service.
func SleepNow() {
	Default().Sleep()
}
