//go:build !linux

package watch

import (
	"context"

	"github.com/cyberstack/hemu/internal/notify"
)

type unsupportedSource struct{}

// NewSource returns the platform event source.
func NewSource() Source {
	return unsupportedSource{}
}

func (unsupportedSource) Events(context.Context) (<-chan notify.Event, error) {
	return nil, ErrUnsupported
}
