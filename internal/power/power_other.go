//go:build !linux && !windows && !(darwin && cgo)

package power

type noopService struct{}

func newService() Service {
	return noopService{}
}

func (noopService) Open() (Handle, error) {
	return nil, ErrUnavailable
}
