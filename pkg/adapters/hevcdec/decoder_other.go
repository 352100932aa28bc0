//go:build !darwin && !linux

package hevcdec

import (
	"errors"

	"github.com/user/decodekit/pkg/ports"
)

// ErrPlatformNotSupported is returned on platforms without dynamic
// library loading support.
var ErrPlatformNotSupported = errors.New("hevcdec: platform not supported")

// Library is the HEVC codec library; unavailable on this platform.
type Library struct{}

// New returns the HEVC library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string    { return "hevc" }
func (*Library) Available() bool { return false }

func (*Library) NewSession() (ports.DecoderSession, error) {
	return nil, ErrPlatformNotSupported
}

var _ ports.CodecLibrary = (*Library)(nil)
