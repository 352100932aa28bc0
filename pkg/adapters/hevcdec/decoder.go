//go:build darwin || linux

package hevcdec

import (
	"errors"
	"unsafe"

	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/ports"
)

// libde265 chroma enum.
const (
	chromaMono = 0
	chroma420  = 1
	chroma422  = 2
	chroma444  = 3
)

// Library is the HEVC codec library backed by libde265.
type Library struct{}

// New returns the HEVC library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string { return "hevc" }

func (*Library) Available() bool { return load() == nil }

// NewSession opens a libde265 context without worker threads; decoding
// runs on the caller's thread.
func (*Library) NewSession() (ports.DecoderSession, error) {
	if err := load(); err != nil {
		return nil, err
	}

	ctx := de265NewDecoder()
	if ctx == 0 {
		return nil, errors.New("hevcdec: de265_new_decoder failed")
	}
	de265StartWorkerThreads(ctx, 0)
	return &session{ctx: ctx}, nil
}

type session struct {
	ctx uintptr
}

// Configure pushes out-of-band parameter set NAL units (VPS/SPS/PPS) and
// runs the decoder far enough to process them.
func (s *session) Configure(config []byte) error {
	if s.ctx == 0 {
		return errors.New("hevcdec: session closed")
	}
	if len(config) == 0 {
		return nil
	}
	if err := s.push(config); err != nil {
		return err
	}
	var more int32
	de265Decode(s.ctx, &more)
	return nil
}

func (s *session) Decode(data []byte, keyframe bool) (ports.Picture, error) {
	_ = keyframe // libde265 detects IRAP pictures itself
	if s.ctx == 0 {
		return nil, errors.New("hevcdec: session closed")
	}
	if len(data) == 0 {
		return nil, errors.New("hevcdec: empty input")
	}

	if err := s.push(data); err != nil {
		return nil, err
	}
	var more int32
	de265Decode(s.ctx, &more)

	return s.nextPicture(), nil
}

func (s *session) Flush() (ports.Picture, error) {
	if s.ctx == 0 {
		return nil, errors.New("hevcdec: session closed")
	}

	de265FlushData(s.ctx)
	var more int32
	de265Decode(s.ctx, &more)

	return s.nextPicture(), nil
}

func (s *session) Close() error {
	if s.ctx != 0 {
		de265FreeDecoder(s.ctx)
		s.ctx = 0
	}
	return nil
}

func (s *session) push(data []byte) error {
	ret := de265PushNAL(s.ctx, &data[0], int32(len(data)), 0, 0)
	if ret != 0 { // DE265_OK == 0
		return errors.New("hevcdec: de265_push_NAL rejected input")
	}
	return nil
}

// nextPicture returns the decoder's next output picture, or nil while it
// is still buffering. The picture stays owned by the context until Close
// calls de265_release_next_picture.
func (s *session) nextPicture() ports.Picture {
	img := de265GetNextPicture(s.ctx)
	if img == 0 {
		return nil
	}
	return &picture{ctx: s.ctx, img: img}
}

type picture struct {
	ctx    uintptr
	img    uintptr
	closed bool
}

func (p *picture) Width() int    { return int(de265GetImageWidth(p.img, 0)) }
func (p *picture) Height() int   { return int(de265GetImageHeight(p.img, 0)) }
func (p *picture) BitDepth() int { return int(de265GetBitsPerPixel(p.img, 0)) }

func (p *picture) Chroma() ports.ChromaFormat {
	switch de265GetChromaFormat(p.img) {
	case chroma444:
		return ports.Chroma444
	case chroma422:
		return ports.Chroma422
	default:
		return ports.Chroma420
	}
}

func (p *picture) Plane(i int) ([]byte, int) {
	if p.closed {
		return nil, 0
	}

	var stride int32
	data := de265GetImagePlane(p.img, int32(i), &stride)
	if data == 0 {
		return nil, 0
	}

	// libde265 reports per-channel dimensions directly, so the plane size
	// comes from the image rather than a derived chroma formula.
	rows := int(de265GetImageHeight(p.img, int32(i)))
	cols := int(de265GetImageWidth(p.img, int32(i)))
	bps := frame.BytesPerSample(int(de265GetBitsPerPixel(p.img, int32(i))))
	size := int(stride)*(rows-1) + cols*bps
	return unsafe.Slice((*byte)(unsafe.Pointer(data)), size), int(stride)
}

func (p *picture) Close() {
	if !p.closed {
		de265ReleaseNextPicture(p.ctx)
		p.closed = true
	}
}

var _ ports.CodecLibrary = (*Library)(nil)
