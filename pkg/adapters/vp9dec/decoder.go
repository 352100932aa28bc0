//go:build darwin || linux

package vp9dec

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/ports"
)

// Mirrors of the libvpx C structs on 64-bit targets.

type vpxCodecCtx struct {
	Name      uintptr // const char *
	Iface     uintptr
	Err       int32
	_         int32
	ErrDetail uintptr
	InitFlags int64
	Config    uintptr
	Priv      uintptr
}

type vpxCodecDecCfg struct {
	Threads uint32
	Width   uint32
	Height  uint32
}

type vpxImage struct {
	Fmt          int32
	ColorSpace   int32
	ColorRange   int32
	W            uint32
	H            uint32
	BitDepth     uint32
	DW           uint32
	DH           uint32
	RW           uint32
	RH           uint32
	XChromaShift uint32
	YChromaShift uint32
	Planes       [4]uintptr
	Stride       [4]int32
	Bps          int32
	_            int32
	UserPriv     uintptr
	ImgData      uintptr
	ImgDataOwner int32
	SelfAllocd   int32
	FbPriv       uintptr
}

// Library is the VP9 codec library backed by libvpx.
type Library struct{}

// New returns the VP9 library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string { return "vp9" }

func (*Library) Available() bool { return load() == nil }

// NewSession initializes a single-threaded VP9 decoder context.
func (*Library) NewSession() (ports.DecoderSession, error) {
	if err := load(); err != nil {
		return nil, err
	}

	s := &session{ctx: &vpxCodecCtx{}}
	cfg := vpxCodecDecCfg{Threads: 1}
	ret := vpxCodecDecInitVer(s.ctx, vpxCodecVP9Dx(), &cfg, 0, decoderABIVersion)
	if ret != 0 { // VPX_CODEC_OK == 0
		return nil, fmt.Errorf("vp9dec: vpx_codec_dec_init failed: %s", errString(ret))
	}
	s.initialized = true
	return s, nil
}

type session struct {
	ctx         *vpxCodecCtx
	initialized bool
}

// Configure is a no-op: VP9 carries its configuration inline in the
// compressed stream.
func (s *session) Configure(config []byte) error { return nil }

func (s *session) Decode(data []byte, keyframe bool) (ports.Picture, error) {
	_ = keyframe // libvpx parses the frame header itself
	if !s.initialized {
		return nil, errors.New("vp9dec: session closed")
	}
	if len(data) == 0 {
		return nil, errors.New("vp9dec: empty input")
	}

	ret := vpxCodecDecode(s.ctx, &data[0], uint32(len(data)), 0, 0)
	if ret != 0 {
		return nil, fmt.Errorf("vp9dec: decode failed: %s", errString(ret))
	}

	return s.nextPicture(), nil
}

// Flush drains buffered pictures by decoding a NULL chunk.
func (s *session) Flush() (ports.Picture, error) {
	if !s.initialized {
		return nil, errors.New("vp9dec: session closed")
	}

	vpxCodecDecode(s.ctx, nil, 0, 0, 0)
	return s.nextPicture(), nil
}

func (s *session) Close() error {
	if s.initialized {
		vpxCodecDestroy(s.ctx)
		s.initialized = false
	}
	return nil
}

func (s *session) nextPicture() ports.Picture {
	var iter uintptr
	img := vpxCodecGetFrame(s.ctx, &iter)
	if img == 0 {
		return nil
	}
	return &picture{raw: (*vpxImage)(unsafe.Pointer(img))}
}

// picture wraps one vpx_image_t. libvpx owns the buffer; it stays valid
// until the next decode call on the same context, so Close has nothing
// to release.
type picture struct {
	raw    *vpxImage
	closed bool
}

func (p *picture) Width() int    { return int(p.raw.DW) }
func (p *picture) Height() int   { return int(p.raw.DH) }
func (p *picture) BitDepth() int { return int(p.raw.BitDepth) }

// Chroma derives the subsampling from the image's chroma shifts rather
// than the format enum, which also covers the high-bitdepth variants.
func (p *picture) Chroma() ports.ChromaFormat {
	switch {
	case p.raw.XChromaShift == 1 && p.raw.YChromaShift == 1:
		return ports.Chroma420
	case p.raw.XChromaShift == 1:
		return ports.Chroma422
	default:
		return ports.Chroma444
	}
}

func (p *picture) Plane(i int) ([]byte, int) {
	if p.closed || p.raw.Planes[i] == 0 {
		return nil, 0
	}

	bps := frame.BytesPerSample(p.BitDepth())
	stride := int(p.raw.Stride[i])
	cols, rows := p.Width(), p.Height()
	if i != ports.PlaneY {
		cols, rows = frame.ChromaDims(p.Chroma(), p.Width(), p.Height())
	}
	size := stride*(rows-1) + cols*bps
	return unsafe.Slice((*byte)(unsafe.Pointer(p.raw.Planes[i])), size), stride
}

func (p *picture) Close() { p.closed = true }

func errString(ret int32) string {
	ptr := vpxCodecErrToStr(ret)
	if ptr == 0 {
		return "unknown error"
	}
	return goString(ptr)
}

// goString copies a NUL-terminated C string.
func goString(ptr uintptr) string {
	var out []byte
	for i := 0; ; i++ {
		b := *(*byte)(unsafe.Pointer(ptr + uintptr(i)))
		if b == 0 {
			return string(out)
		}
		out = append(out, b)
	}
}

var _ ports.CodecLibrary = (*Library)(nil)
