//go:build darwin || linux

package av1dec

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/ports"
)

// Mirrors of the dav1d 1.x C structs on 64-bit targets. These must match
// the library ABI exactly; purego passes them by pointer.

type dav1dSettings struct {
	NThreads              int32
	MaxFrameDelay         int32
	ApplyGrain            int32
	OperatingPoint        int32
	AllLayers             int32
	FrameSizeLimit        uint32
	Allocator             [3]uintptr // cookie + alloc/release callbacks
	Logger                [2]uintptr // cookie + callback
	StrictStdCompliance   int32
	OutputInvisibleFrames int32
	InloopFilters         int32
	DecodeFrameType       int32
	Reserved              [16]uint8
}

type dav1dDataProps struct {
	Timestamp int64
	Duration  int64
	Offset    int64
	Size      uintptr
	UserData  [2]uintptr
}

type dav1dData struct {
	Data uintptr
	Sz   uintptr
	Ref  uintptr
	M    dav1dDataProps
}

type dav1dPictureParams struct {
	Layout int32
	W      int32
	H      int32
	Bpc    int32
}

type dav1dPicture struct {
	SeqHdr        uintptr
	FrameHdr      uintptr
	Data          [3]uintptr
	Stride        [2]uintptr
	P             dav1dPictureParams
	M             dav1dDataProps
	ContentLight  uintptr
	MasteringDisp uintptr
	ItutT35       uintptr
	NItutT35      uintptr
	Reserved      [4]uintptr
	FrameHdrRef   uintptr
	SeqHdrRef     uintptr
	ContentRef    uintptr
	MasteringRef  uintptr
	ItutT35Ref    uintptr
	ReservedRef   [4]uintptr
	Ref           uintptr
	AllocatorData uintptr
}

// dav1d pixel layout enum.
const (
	layoutI400 = 0
	layoutI420 = 1
	layoutI422 = 2
	layoutI444 = 3
)

// Library is the AV1 codec library backed by libdav1d.
type Library struct{}

// New returns the AV1 library adapter.
func New() *Library { return &Library{} }

func (*Library) Name() string { return "av1" }

func (*Library) Available() bool { return load() == nil }

// NewSession opens a single-threaded, minimal-delay dav1d context.
func (*Library) NewSession() (ports.DecoderSession, error) {
	if err := load(); err != nil {
		return nil, err
	}

	var settings dav1dSettings
	dav1dDefaultSettings(&settings)
	settings.NThreads = 1
	settings.MaxFrameDelay = 1

	var ctx uintptr
	if ret := dav1dOpen(&ctx, &settings); ret < 0 {
		return nil, fmt.Errorf("av1dec: dav1d_open failed: %d", ret)
	}
	return &session{ctx: ctx}, nil
}

type session struct {
	ctx uintptr
}

// Configure is a no-op: AV1 sequence headers travel inline in the OBU
// stream.
func (s *session) Configure(config []byte) error { return nil }

func (s *session) Decode(data []byte, keyframe bool) (ports.Picture, error) {
	_ = keyframe // dav1d detects keyframes from the OBUs
	if s.ctx == 0 {
		return nil, errors.New("av1dec: session closed")
	}
	if len(data) == 0 {
		return nil, errors.New("av1dec: empty input")
	}

	var d dav1dData
	buf := dav1dDataCreate(&d, uintptr(len(data)))
	if buf == 0 {
		return nil, errors.New("av1dec: dav1d_data_create failed")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(buf)), len(data)), data)

	// dav1d signals EAGAIN while an undelivered picture blocks the input
	// queue; retrieving the picture unblocks the send. The chunk is never
	// abandoned with its reference held.
	var pending ports.Picture
	ret := dav1dSendData(s.ctx, &d)
	for attempts := 0; isAgain(ret) && attempts < 64; attempts++ {
		if pending == nil {
			pic, err := s.nextPicture()
			if err != nil {
				dav1dDataUnref(&d)
				return nil, err
			}
			pending = pic
		}
		ret = dav1dSendData(s.ctx, &d)
	}
	if ret < 0 {
		dav1dDataUnref(&d)
		if pending != nil {
			pending.Close()
		}
		if isAgain(ret) {
			return nil, errors.New("av1dec: dav1d_send_data stalled, input dropped")
		}
		return nil, fmt.Errorf("av1dec: dav1d_send_data failed: %d", ret)
	}

	if pending != nil {
		return pending, nil
	}
	return s.nextPicture()
}

func (s *session) Flush() (ports.Picture, error) {
	if s.ctx == 0 {
		return nil, errors.New("av1dec: session closed")
	}
	return s.nextPicture()
}

func (s *session) Close() error {
	if s.ctx != 0 {
		dav1dClose(&s.ctx)
		s.ctx = 0
	}
	return nil
}

// nextPicture retrieves one completed picture, or (nil, nil) while the
// decoder is still buffering.
func (s *session) nextPicture() (ports.Picture, error) {
	pic := &picture{}
	ret := dav1dGetPicture(s.ctx, &pic.raw)
	if ret < 0 {
		if isAgain(ret) {
			return nil, nil
		}
		return nil, fmt.Errorf("av1dec: dav1d_get_picture failed: %d", ret)
	}
	if pic.raw.Data[0] == 0 {
		return nil, nil
	}
	return pic, nil
}

// picture wraps one Dav1dPicture until Close unrefs it.
type picture struct {
	raw    dav1dPicture
	closed bool
}

func (p *picture) Width() int    { return int(p.raw.P.W) }
func (p *picture) Height() int   { return int(p.raw.P.H) }
func (p *picture) BitDepth() int { return int(p.raw.P.Bpc) }

func (p *picture) Chroma() ports.ChromaFormat {
	switch p.raw.P.Layout {
	case layoutI444:
		return ports.Chroma444
	case layoutI422:
		return ports.Chroma422
	default:
		return ports.Chroma420
	}
}

func (p *picture) Plane(i int) ([]byte, int) {
	if p.closed || p.raw.Data[i] == 0 {
		return nil, 0
	}

	// dav1d shares one stride between both chroma planes.
	bps := frame.BytesPerSample(p.BitDepth())
	stride := int(p.raw.Stride[0])
	cols, rows := p.Width(), p.Height()
	if i != ports.PlaneY {
		stride = int(p.raw.Stride[1])
		cols, rows = frame.ChromaDims(p.Chroma(), p.Width(), p.Height())
	}
	size := stride*(rows-1) + cols*bps
	return unsafe.Slice((*byte)(unsafe.Pointer(p.raw.Data[i])), size), stride
}

func (p *picture) Close() {
	if !p.closed {
		dav1dPictureUnref(&p.raw)
		p.closed = true
	}
}

var _ ports.CodecLibrary = (*Library)(nil)
