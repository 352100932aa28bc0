package decode

import (
	"context"
	"errors"
	"testing"

	"github.com/user/decodekit/pkg/abi"
	"github.com/user/decodekit/pkg/adapters/logger"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// fakePicture is a minimal 4x2 4:2:0 8-bit picture.
type fakePicture struct {
	closed bool
}

func (p *fakePicture) Width() int                { return 4 }
func (p *fakePicture) Height() int               { return 2 }
func (p *fakePicture) BitDepth() int             { return 8 }
func (p *fakePicture) Chroma() ports.ChromaFormat { return ports.Chroma420 }

func (p *fakePicture) Plane(i int) ([]byte, int) {
	if i == ports.PlaneY {
		return []byte{1, 2, 3, 4, 5, 6, 7, 8}, 4
	}
	return []byte{9, 10}, 2
}

func (p *fakePicture) Close() { p.closed = true }

// fakeSession emits one picture per input unit after a fixed reordering
// delay, then drains the backlog on Flush.
type fakeSession struct {
	delay   int
	pending int
	closed  bool
}

func (s *fakeSession) Configure(config []byte) error { return nil }

func (s *fakeSession) Decode(data []byte, keyframe bool) (ports.Picture, error) {
	if s.closed {
		return nil, errors.New("closed")
	}
	s.pending++
	if s.delay > 0 {
		s.delay--
		return nil, nil
	}
	s.pending--
	return &fakePicture{}, nil
}

func (s *fakeSession) Flush() (ports.Picture, error) {
	if s.pending == 0 {
		return nil, nil
	}
	s.pending--
	return &fakePicture{}, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeLib struct {
	delay int
}

func (l *fakeLib) Name() string    { return "fake" }
func (l *fakeLib) Available() bool { return true }

func (l *fakeLib) NewSession() (ports.DecoderSession, error) {
	return &fakeSession{delay: l.delay}, nil
}

func newTestExports(delay int) *abi.Exports {
	exports := abi.New(logger.NewNoop())
	exports.Register(abi.KindAV1, &fakeLib{delay: delay})
	return exports
}

func units(n int) []pipeline.AccessUnit {
	out := make([]pipeline.AccessUnit, n)
	for i := range out {
		out[i] = pipeline.AccessUnit{
			Data:        []byte{byte(i + 1)},
			TimestampMs: i * 33,
			Keyframe:    i == 0,
		}
	}
	return out
}

func TestExecuteWithReorderingDelay(t *testing.T) {
	exports := newTestExports(1)
	stage := NewStage(exports, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{
		Codec: "av1",
		Units: units(3),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(result.Frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(result.Frames))
	}
	for i, f := range result.Frames {
		if f.TimestampMs != i*33 {
			t.Errorf("frame %d timestamp = %d, want %d", i, f.TimestampMs, i*33)
		}
		if f.Frame.Width != 4 || f.Frame.Height != 2 {
			t.Errorf("frame %d dims = %dx%d", i, f.Frame.Width, f.Frame.Height)
		}
	}

	// Sessions, records and planes must all be released.
	if live := exports.Live(); live != 0 {
		t.Errorf("%d table entries leaked", live)
	}
}

func TestExecuteRenderImages(t *testing.T) {
	stage := NewStage(newTestExports(0), logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{
		Codec:        "av1",
		Units:        units(1),
		RenderImages: true,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Frames[0].Image == nil {
		t.Error("expected rendered image")
	}
	bounds := result.Frames[0].Image.Bounds()
	if bounds.Dx() != 4 || bounds.Dy() != 2 {
		t.Errorf("image size = %dx%d, want 4x2", bounds.Dx(), bounds.Dy())
	}
}

func TestExecuteMaxFrames(t *testing.T) {
	exports := newTestExports(0)
	stage := NewStage(exports, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.DecodeInput{
		Codec:     "av1",
		Units:     units(5),
		MaxFrames: 2,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Frames) != 2 {
		t.Errorf("got %d frames, want 2", len(result.Frames))
	}
	if live := exports.Live(); live != 0 {
		t.Errorf("%d table entries leaked", live)
	}
}

func TestExecuteUnknownCodec(t *testing.T) {
	stage := NewStage(newTestExports(0), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.DecodeInput{
		Codec: "h264",
		Units: units(1),
	})
	if err == nil {
		t.Error("expected error for unregistered codec")
	}
}

func TestExecuteCancelled(t *testing.T) {
	stage := NewStage(newTestExports(0), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stage.Execute(ctx, pipeline.DecodeInput{
		Codec: "av1",
		Units: units(3),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
