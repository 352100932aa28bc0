// Package filesink provides a file-based frame sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/decodekit/pkg/adapters/preview"
	"github.com/user/decodekit/pkg/ports"
)

// Sink saves decoded output to files under a base directory.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveManifestJSON saves the decode run summary as JSON.
func (s *Sink) SaveManifestJSON(data []byte) error {
	path := filepath.Join(s.baseDir, "manifest.json")
	return s.fs.WriteFile(path, data)
}

// SaveFrameYUV saves one frame's packed planes as raw planar YUV.
func (s *Sink) SaveFrameYUV(index int, data []byte) error {
	dir := filepath.Join(s.baseDir, "frames", "yuv")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.yuv", index))
	return s.fs.WriteFile(path, data)
}

// SaveFramePNG saves one frame converted to an image.
func (s *Sink) SaveFramePNG(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames", "png")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := preview.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", index))
	return s.fs.WriteFile(path, data)
}

// SaveContactSheet saves the preview grid of decoded frames.
func (s *Sink) SaveContactSheet(img image.Image) error {
	data, err := preview.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode contact sheet: %w", err)
	}
	path := filepath.Join(s.baseDir, "sheet.png")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.FrameSink
var _ ports.FrameSink = (*Sink)(nil)
