// Package frame implements the canonical decoded-frame record: tightly
// packed Y/U/V planes with a fixed binary header layout shared by all
// codec adapters.
package frame

import (
	"fmt"

	"github.com/user/decodekit/pkg/ports"
)

// Frame is one decoded picture normalized to the canonical layout:
// three independently owned, tightly packed planes in row-major order
// with no stride padding.
type Frame struct {
	Width    int
	Height   int
	Chroma   ports.ChromaFormat
	BitDepth int

	Y []byte
	U []byte
	V []byte
}

// YSize returns the byte length of the luma plane.
func (f *Frame) YSize() int { return len(f.Y) }

// UVSize returns the byte length of each chroma plane.
func (f *Frame) UVSize() int { return len(f.U) }

// BytesPerSample returns 2 for bit depths above 8, otherwise 1.
func BytesPerSample(bitDepth int) int {
	if bitDepth > 8 {
		return 2
	}
	return 1
}

// ChromaDims returns the chroma plane dimensions for the given luma
// dimensions. Odd luma dimensions round up (ceil division), matching the
// sample counts the codecs produce for subsampled planes.
func ChromaDims(format ports.ChromaFormat, width, height int) (cw, ch int) {
	switch format {
	case ports.Chroma420:
		return (width + 1) / 2, (height + 1) / 2
	case ports.Chroma422:
		return (width + 1) / 2, height
	default:
		return width, height
	}
}

// validate checks the reported picture geometry before any allocation.
func validate(width, height, bitDepth int, format ports.ChromaFormat) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("frame: invalid dimensions %dx%d", width, height)
	}
	if bitDepth < 8 || bitDepth > 16 {
		return fmt.Errorf("frame: invalid bit depth %d", bitDepth)
	}
	switch format {
	case ports.Chroma420, ports.Chroma422, ports.Chroma444:
		return nil
	default:
		return fmt.Errorf("frame: invalid chroma format %d", format)
	}
}
