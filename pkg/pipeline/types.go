package pipeline

import (
	"image"

	"github.com/user/decodekit/pkg/frame"
)

// =============================================================================
// Demux Stage Types
// =============================================================================

// DemuxInput contains parameters for demultiplexing an input file.
type DemuxInput struct {
	Path          string
	CodecOverride string // force a codec instead of detecting one
}

// AccessUnit is one decodable chunk of compressed data with its timing.
// For HEVC this is a single NAL unit; for AV1 and VP9 a full temporal unit.
type AccessUnit struct {
	Data        []byte
	TimestampMs int
	DurationMs  int
	Keyframe    bool
}

// DemuxResult is the demultiplexed elementary stream.
type DemuxResult struct {
	Codec     string
	Container string
	Config    [][]byte // out-of-band configuration, in push order
	Units     []AccessUnit
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains the elementary stream to decode.
type DecodeInput struct {
	Codec        string
	Config       [][]byte
	Units        []AccessUnit
	MaxFrames    int  // 0 means no limit
	RenderImages bool // also convert each frame to an RGBA image
}

// DecodedFrame is one decoded frame in output order.
type DecodedFrame struct {
	Frame       *frame.Frame
	Image       image.Image // nil unless RenderImages was set
	TimestampMs int
}

// DecodeResult contains all decoded frames.
type DecodeResult struct {
	Frames []DecodedFrame
}

// =============================================================================
// Sheet Stage Types
// =============================================================================

// SheetInput contains parameters for the contact sheet.
type SheetInput struct {
	Frames     []DecodedFrame
	Columns    int
	ThumbWidth int
}

// SheetResult contains the rendered contact sheet.
type SheetResult struct {
	Sheet image.Image
}
