//go:build !darwin && !linux

package av1dec

import (
	"errors"

	"github.com/user/decodekit/pkg/ports"
)

// ErrPlatformNotSupported is returned on platforms without dynamic
// library loading support.
var ErrPlatformNotSupported = errors.New("av1dec: platform not supported")

// Library is the AV1 codec library; unavailable on this platform.
type Library struct{}

// New returns the AV1 library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string    { return "av1" }
func (*Library) Available() bool { return false }

func (*Library) NewSession() (ports.DecoderSession, error) {
	return nil, ErrPlatformNotSupported
}

var _ ports.CodecLibrary = (*Library)(nil)
