//go:build !darwin && !linux

package vp9dec

import (
	"errors"

	"github.com/user/decodekit/pkg/ports"
)

// ErrPlatformNotSupported is returned on platforms without dynamic
// library loading support.
var ErrPlatformNotSupported = errors.New("vp9dec: platform not supported")

// Library is the VP9 codec library; unavailable on this platform.
type Library struct{}

// New returns the VP9 library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string    { return "vp9" }
func (*Library) Available() bool { return false }

func (*Library) NewSession() (ports.DecoderSession, error) {
	return nil, ErrPlatformNotSupported
}

var _ ports.CodecLibrary = (*Library)(nil)
