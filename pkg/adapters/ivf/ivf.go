// Package ivf reads IVF container files, the simple frame framing
// commonly used for raw AV1 and VP9 bitstreams.
package ivf

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	headerSize      = 32
	frameHeaderSize = 12
	signature       = "DKIF"
)

// FourCC values for the codecs this reader recognizes.
const (
	FourCCAV1 = "AV01"
	FourCCVP9 = "VP90"
)

// Header is the parsed IVF file header.
type Header struct {
	FourCC      string
	Width       int
	Height      int
	TimebaseNum uint32
	TimebaseDen uint32
	FrameCount  uint32
}

// Frame is one compressed frame with its presentation timestamp in
// timebase units.
type Frame struct {
	Data []byte
	PTS  uint64
}

// Reader reads IVF frames sequentially.
type Reader struct {
	r      io.Reader
	header Header
}

// NewReader parses the IVF file header and returns a frame reader.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("ivf: read header: %w", err)
	}

	if string(buf[0:4]) != signature {
		return nil, fmt.Errorf("ivf: bad signature %q", buf[0:4])
	}
	if hdrLen := binary.LittleEndian.Uint16(buf[6:8]); hdrLen != headerSize {
		return nil, fmt.Errorf("ivf: unexpected header length %d", hdrLen)
	}

	return &Reader{
		r: r,
		header: Header{
			FourCC:      string(buf[8:12]),
			Width:       int(binary.LittleEndian.Uint16(buf[12:14])),
			Height:      int(binary.LittleEndian.Uint16(buf[14:16])),
			TimebaseDen: binary.LittleEndian.Uint32(buf[16:20]),
			TimebaseNum: binary.LittleEndian.Uint32(buf[20:24]),
			FrameCount:  binary.LittleEndian.Uint32(buf[24:28]),
		},
	}, nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header { return r.header }

// ReadFrame returns the next frame, or io.EOF after the last one.
func (r *Reader) ReadFrame() (*Frame, error) {
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("ivf: read frame header: %w", err)
	}

	size := binary.LittleEndian.Uint32(hdr[0:4])
	data := make([]byte, size)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("ivf: read frame data: %w", err)
	}

	return &Frame{
		Data: data,
		PTS:  binary.LittleEndian.Uint64(hdr[4:12]),
	}, nil
}

// ReadFile reads every frame of an IVF file.
func ReadFile(path string) (Header, []Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("ivf: open: %w", err)
	}
	defer f.Close()

	reader, err := NewReader(f)
	if err != nil {
		return Header{}, nil, err
	}

	var frames []Frame
	for {
		frame, err := reader.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, nil, err
		}
		frames = append(frames, *frame)
	}

	return reader.Header(), frames, nil
}
