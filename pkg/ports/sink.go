package ports

import (
	"image"
)

// FrameSink abstracts where decoded output goes. Implementations save
// per-frame artifacts and run-level summaries.
type FrameSink interface {
	// Enabled returns true if the sink actually persists output.
	Enabled() bool

	// SaveManifestJSON saves the decode run summary as JSON.
	SaveManifestJSON(data []byte) error

	// SaveFrameYUV saves one frame's packed planes as raw planar YUV.
	SaveFrameYUV(index int, data []byte) error

	// SaveFramePNG saves one frame converted to an image.
	SaveFramePNG(index int, img image.Image) error

	// SaveContactSheet saves the preview grid of decoded frames.
	SaveContactSheet(img image.Image) error
}
