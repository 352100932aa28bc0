// Package nullsink provides a no-op frame sink implementation.
package nullsink

import (
	"image"

	"github.com/user/decodekit/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
// It discards all output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveManifestJSON does nothing.
func (s *Sink) SaveManifestJSON(data []byte) error {
	return nil
}

// SaveFrameYUV does nothing.
func (s *Sink) SaveFrameYUV(index int, data []byte) error {
	return nil
}

// SaveFramePNG does nothing.
func (s *Sink) SaveFramePNG(index int, img image.Image) error {
	return nil
}

// SaveContactSheet does nothing.
func (s *Sink) SaveContactSheet(img image.Image) error {
	return nil
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
