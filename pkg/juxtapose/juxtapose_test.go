package juxtapose

import (
	"context"
	"image"
	"testing"

	"github.com/user/decodekit/pkg/adapters/logger"
	"github.com/user/decodekit/pkg/mocks"
	"github.com/user/decodekit/pkg/pipeline"
)

type stubDemux struct{}

func (stubDemux) Execute(ctx context.Context, input pipeline.DemuxInput) (pipeline.DemuxResult, error) {
	return pipeline.DemuxResult{
		Codec: "av1",
		Units: []pipeline.AccessUnit{{Data: []byte{0x01}}},
	}, nil
}

type stubDecode struct {
	frames map[string]int // keyed by nothing; simple counter
	sizes  []image.Rectangle
	calls  int
}

func (s *stubDecode) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	bounds := s.sizes[s.calls%len(s.sizes)]
	count := s.frames["count"]
	s.calls++

	var frames []pipeline.DecodedFrame
	for i := 0; i < count; i++ {
		frames = append(frames, pipeline.DecodedFrame{
			Image:       image.NewRGBA(bounds),
			TimestampMs: i * 33,
		})
	}
	return pipeline.DecodeResult{Frames: frames}, nil
}

func TestExecuteSingleFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	decodeStage := &stubDecode{
		frames: map[string]int{"count": 1},
		sizes:  []image.Rectangle{image.Rect(0, 0, 32, 24)},
	}
	stage := New(stubDemux{}, decodeStage, fs, logger.NewNoop(), DefaultOptions())

	result, err := stage.Execute(context.Background(), Input{
		LeftPath:   "left.ivf",
		RightPath:  "right.ivf",
		OutputPath: "cmp.png",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Width != 32+10+32 {
		t.Errorf("Width = %d, want %d", result.Width, 32+10+32)
	}
	if result.Height != 24 {
		t.Errorf("Height = %d, want 24", result.Height)
	}
	if result.FrameCount != 1 {
		t.Errorf("FrameCount = %d, want 1", result.FrameCount)
	}
	if _, ok := fs.GetFile("cmp.png"); !ok {
		t.Error("expected cmp.png to be written")
	}
}

func TestExecuteMultipleFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	decodeStage := &stubDecode{
		frames: map[string]int{"count": 3},
		sizes:  []image.Rectangle{image.Rect(0, 0, 16, 16)},
	}
	opts := DefaultOptions()
	opts.MaxFrames = 3
	stage := New(stubDemux{}, decodeStage, fs, logger.NewNoop(), opts)

	result, err := stage.Execute(context.Background(), Input{
		LeftPath:   "a.ivf",
		RightPath:  "b.ivf",
		OutputPath: "cmp.png",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.FrameCount != 3 {
		t.Fatalf("FrameCount = %d, want 3", result.FrameCount)
	}
	for _, name := range []string{"cmp-00.png", "cmp-01.png", "cmp-02.png"} {
		if _, ok := fs.GetFile(name); !ok {
			t.Errorf("expected %s to be written", name)
		}
	}
}

func TestOutputName(t *testing.T) {
	if got := outputName("cmp.png", 0, 1); got != "cmp.png" {
		t.Errorf("outputName single = %q", got)
	}
	if got := outputName("cmp.png", 2, 3); got != "cmp-02.png" {
		t.Errorf("outputName indexed = %q", got)
	}
	if got := outputName("cmp", 1, 2); got != "cmp-01.png" {
		t.Errorf("outputName no ext = %q", got)
	}
}
