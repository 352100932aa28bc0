// Package ports defines the interfaces between the codec-agnostic core and
// the per-codec decoder library bindings.
package ports

// ChromaFormat identifies the chroma subsampling of a decoded picture.
// The values match the numeric convention used in the frame record
// (420 halves both chroma dimensions, 422 halves only the width,
// 444 keeps full resolution).
type ChromaFormat int32

const (
	Chroma420 ChromaFormat = 420
	Chroma422 ChromaFormat = 422
	Chroma444 ChromaFormat = 444
)

// Plane indexes for Picture.Plane.
const (
	PlaneY = 0
	PlaneU = 1
	PlaneV = 2
)

// Picture is the accessor contract of one library-native decoded picture.
// The underlying buffer belongs to the decoder library; callers must copy
// out anything they need and call Close before issuing the next decode
// call on the owning session.
type Picture interface {
	Width() int
	Height() int
	BitDepth() int
	Chroma() ChromaFormat

	// Plane returns the raw samples of one plane at the library's native
	// stride. The slice covers at least stride*(rows-1)+rowBytes bytes and
	// is only valid until Close is called.
	Plane(i int) (data []byte, stride int)

	// Close releases the library's reference to the picture buffer.
	Close()
}

// DecoderSession is one live decoding session of a codec library.
// Sessions are not safe for concurrent use; callers must issue
// Configure/Decode/Flush/Close strictly sequentially.
type DecoderSession interface {
	// Configure feeds out-of-band configuration bytes (e.g. HEVC parameter
	// set NAL units). Codecs that carry configuration inline in the
	// compressed stream accept the call and ignore it.
	Configure(config []byte) error

	// Decode feeds one chunk of compressed data and attempts to retrieve
	// one completed picture. A (nil, nil) return means the chunk was
	// consumed but no picture is ready yet (the decoder is buffering for
	// reordering); callers should keep feeding data. The keyframe hint is
	// advisory; the libraries detect keyframes internally.
	Decode(data []byte, keyframe bool) (Picture, error)

	// Flush signals end-of-stream and retrieves one buffered picture if
	// present. Call repeatedly until it returns (nil, nil) to drain a
	// multi-picture backlog.
	Flush() (Picture, error)

	// Close releases the underlying library context.
	Close() error
}

// CodecLibrary creates decoder sessions for one codec.
type CodecLibrary interface {
	// Name returns a short codec identifier ("av1", "hevc", "vp9").
	Name() string

	// Available reports whether the underlying shared library could be
	// loaded on this system.
	Available() bool

	// NewSession opens a new single-threaded, low-delay decoding session.
	NewSession() (DecoderSession, error)
}
