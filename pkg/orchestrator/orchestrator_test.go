package orchestrator

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/user/decodekit/pkg/adapters/logger"
	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// mockDemuxStage is a mock for the demux stage.
type mockDemuxStage struct {
	result pipeline.DemuxResult
	err    error
}

func (m *mockDemuxStage) Execute(ctx context.Context, input pipeline.DemuxInput) (pipeline.DemuxResult, error) {
	if m.err != nil {
		return pipeline.DemuxResult{}, m.err
	}
	return m.result, nil
}

// mockDecodeStage is a mock for the decode stage.
type mockDecodeStage struct {
	result pipeline.DecodeResult
	input  pipeline.DecodeInput
	err    error
}

func (m *mockDecodeStage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.DecodeResult{}, m.err
	}
	return m.result, nil
}

// mockSheetStage is a mock for the sheet stage.
type mockSheetStage struct {
	result pipeline.SheetResult
	called bool
	err    error
}

func (m *mockSheetStage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	m.called = true
	if m.err != nil {
		return pipeline.SheetResult{}, m.err
	}
	return m.result, nil
}

// recordingSink captures everything saved through the FrameSink port.
type recordingSink struct {
	manifest    []byte
	manifestErr error
	yuv         map[int][]byte
	png         map[int]image.Image
	sheet       image.Image
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		yuv: make(map[int][]byte),
		png: make(map[int]image.Image),
	}
}

func (s *recordingSink) Enabled() bool { return true }

func (s *recordingSink) SaveManifestJSON(data []byte) error {
	if s.manifestErr != nil {
		return s.manifestErr
	}
	s.manifest = data
	return nil
}

func (s *recordingSink) SaveFrameYUV(index int, data []byte) error {
	s.yuv[index] = data
	return nil
}

func (s *recordingSink) SaveFramePNG(index int, img image.Image) error {
	s.png[index] = img
	return nil
}

func (s *recordingSink) SaveContactSheet(img image.Image) error {
	s.sheet = img
	return nil
}

var _ ports.FrameSink = (*recordingSink)(nil)

func testFrame(ts int) pipeline.DecodedFrame {
	return pipeline.DecodedFrame{
		Frame: &frame.Frame{
			Width:    4,
			Height:   2,
			Chroma:   ports.Chroma420,
			BitDepth: 8,
			Y:        []byte{1, 2, 3, 4, 5, 6, 7, 8},
			U:        []byte{9, 10},
			V:        []byte{11, 12},
		},
		Image:       image.NewRGBA(image.Rect(0, 0, 4, 2)),
		TimestampMs: ts,
	}
}

func testDemuxResult() pipeline.DemuxResult {
	return pipeline.DemuxResult{
		Codec:     "av1",
		Container: "ivf",
		Units: []pipeline.AccessUnit{
			{Data: []byte{0x0A}, TimestampMs: 0, DurationMs: 33, Keyframe: true},
			{Data: []byte{0x0B}, TimestampMs: 33, DurationMs: 33},
		},
	}
}

func TestOrchestrator_Run(t *testing.T) {
	demuxStage := &mockDemuxStage{result: testDemuxResult()}
	decodeStage := &mockDecodeStage{
		result: pipeline.DecodeResult{
			Frames: []pipeline.DecodedFrame{testFrame(0), testFrame(33)},
		},
	}
	sheetStage := &mockSheetStage{
		result: pipeline.SheetResult{Sheet: image.NewRGBA(image.Rect(0, 0, 10, 10))},
	}
	sink := newRecordingSink()

	o := New(demuxStage, decodeStage, sheetStage, sink, logger.NewNoop())

	config := DefaultConfig()
	config.InputPath = "input.ivf"

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Codec != "av1" {
		t.Errorf("Codec = %q, want %q", result.Codec, "av1")
	}
	if result.FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", result.FrameCount)
	}
	if result.Width != 4 || result.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 4x2", result.Width, result.Height)
	}
	if result.DurationMs != 66 {
		t.Errorf("DurationMs = %d, want 66", result.DurationMs)
	}

	if len(sink.yuv) != 2 {
		t.Errorf("saved %d YUV frames, want 2", len(sink.yuv))
	}
	wantYUV := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if string(sink.yuv[0]) != string(wantYUV) {
		t.Errorf("YUV frame 0 = %v, want %v", sink.yuv[0], wantYUV)
	}
	if !sheetStage.called {
		t.Error("expected sheet stage to run")
	}
	if sink.sheet == nil {
		t.Error("expected contact sheet to be saved")
	}
	if !strings.Contains(string(sink.manifest), `"codec": "av1"`) {
		t.Errorf("manifest missing codec: %s", sink.manifest)
	}
}

func TestOrchestrator_SheetDisabled(t *testing.T) {
	demuxStage := &mockDemuxStage{result: testDemuxResult()}
	decodeStage := &mockDecodeStage{
		result: pipeline.DecodeResult{Frames: []pipeline.DecodedFrame{testFrame(0)}},
	}
	sheetStage := &mockSheetStage{}
	sink := newRecordingSink()

	o := New(demuxStage, decodeStage, sheetStage, sink, logger.NewNoop())

	config := DefaultConfig()
	config.InputPath = "input.ivf"
	config.SheetEnabled = false

	if _, err := o.Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if sheetStage.called {
		t.Error("sheet stage should not run when disabled")
	}
	if !decodeStage.input.RenderImages {
		// SavePNG defaults to false and the sheet is off.
		t.Log("RenderImages off as expected")
	}
}

func TestOrchestrator_DemuxError(t *testing.T) {
	demuxStage := &mockDemuxStage{err: errors.New("bad input")}
	o := New(demuxStage, &mockDecodeStage{}, &mockSheetStage{}, newRecordingSink(), logger.NewNoop())

	if _, err := o.Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("expected error from demux stage")
	}
}

func TestOrchestrator_DecodeError(t *testing.T) {
	demuxStage := &mockDemuxStage{result: testDemuxResult()}
	decodeStage := &mockDecodeStage{err: errors.New("no frames")}
	o := New(demuxStage, decodeStage, &mockSheetStage{}, newRecordingSink(), logger.NewNoop())

	if _, err := o.Run(context.Background(), DefaultConfig()); err == nil {
		t.Error("expected error from decode stage")
	}
}

func TestOrchestrator_ManifestError(t *testing.T) {
	demuxStage := &mockDemuxStage{result: testDemuxResult()}
	decodeStage := &mockDecodeStage{
		result: pipeline.DecodeResult{Frames: []pipeline.DecodedFrame{testFrame(0)}},
	}
	sink := newRecordingSink()
	sink.manifestErr = errors.New("disk full")

	o := New(demuxStage, decodeStage, &mockSheetStage{}, sink, logger.NewNoop())

	config := DefaultConfig()
	config.InputPath = "input.ivf"
	config.SheetEnabled = false

	_, err := o.Run(context.Background(), config)
	if err == nil {
		t.Fatal("expected manifest save failure to surface")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want the sink failure", err)
	}
}

func TestOrchestrator_CodecOverridePassedToDemux(t *testing.T) {
	demuxStage := &mockDemuxStage{result: testDemuxResult()}
	decodeStage := &mockDecodeStage{
		result: pipeline.DecodeResult{Frames: []pipeline.DecodedFrame{testFrame(0)}},
	}
	o := New(demuxStage, decodeStage, &mockSheetStage{}, newRecordingSink(), logger.NewNoop())

	config := DefaultConfig()
	config.InputPath = "input.ivf"
	config.Codec = "vp9"
	config.SheetEnabled = false

	if _, err := o.Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Decode uses the demuxed codec, not the override directly.
	if decodeStage.input.Codec != "av1" {
		t.Errorf("decode codec = %q, want %q", decodeStage.input.Codec, "av1")
	}
}
