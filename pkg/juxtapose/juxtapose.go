// Package juxtapose renders two decoded inputs side by side for visual
// comparison, frame by frame.
package juxtapose

import (
	"context"
	"fmt"
	"image"
	"image/draw"

	"github.com/ideamans/go-l10n"
	"github.com/user/decodekit/pkg/adapters/preview"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// Options configures the juxtapose operation.
type Options struct {
	// Gap is the horizontal gap between the two frames in pixels.
	Gap int
	// MaxFrames limits how many frame pairs are rendered (0 = 1).
	MaxFrames int
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Gap:       10,
		MaxFrames: 1,
	}
}

// Input names the two inputs and the output location.
type Input struct {
	LeftPath   string
	RightPath  string
	OutputPath string // single PNG; with MaxFrames > 1 an index is appended
}

// Result reports what was written.
type Result struct {
	Width      int
	Height     int
	FrameCount int
}

// Stage decodes both inputs and writes the composed comparisons.
type Stage struct {
	demuxStage  pipeline.Stage[pipeline.DemuxInput, pipeline.DemuxResult]
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	fs          ports.FileSystem
	logger      ports.Logger
	opts        Options
}

// New creates a new juxtapose stage.
func New(
	demuxStage pipeline.Stage[pipeline.DemuxInput, pipeline.DemuxResult],
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	fs ports.FileSystem,
	logger ports.Logger,
	opts Options,
) *Stage {
	return &Stage{
		demuxStage:  demuxStage,
		decodeStage: decodeStage,
		fs:          fs,
		logger:      logger,
		opts:        opts,
	}
}

// Execute decodes both inputs and writes side-by-side PNGs.
// The shorter input holds its last frame until the longer one finishes.
func (s *Stage) Execute(ctx context.Context, input Input) (Result, error) {
	maxFrames := s.opts.MaxFrames
	if maxFrames < 1 {
		maxFrames = 1
	}

	left, err := s.decodeInput(ctx, input.LeftPath, maxFrames)
	if err != nil {
		return Result{}, fmt.Errorf("decode left input: %w", err)
	}
	right, err := s.decodeInput(ctx, input.RightPath, maxFrames)
	if err != nil {
		return Result{}, fmt.Errorf("decode right input: %w", err)
	}

	leftBounds := left[0].Image.Bounds()
	rightBounds := right[0].Image.Bounds()

	outputWidth := leftBounds.Dx() + s.opts.Gap + rightBounds.Dx()
	outputHeight := leftBounds.Dy()
	if rightBounds.Dy() > outputHeight {
		outputHeight = rightBounds.Dy()
	}

	count := len(left)
	if len(right) > count {
		count = len(right)
	}
	if count > maxFrames {
		count = maxFrames
	}

	s.logger.Info(l10n.F("Composing %d comparison frames", count))

	for i := 0; i < count; i++ {
		canvas := image.NewRGBA(image.Rect(0, 0, outputWidth, outputHeight))
		drawFrame(canvas, holdFrame(left, i), 0)
		drawFrame(canvas, holdFrame(right, i), leftBounds.Dx()+s.opts.Gap)

		data, err := preview.EncodePNG(canvas)
		if err != nil {
			return Result{}, err
		}
		if err := s.fs.WriteFile(outputName(input.OutputPath, i, count), data); err != nil {
			return Result{}, fmt.Errorf("write comparison: %w", err)
		}
	}

	return Result{
		Width:      outputWidth,
		Height:     outputHeight,
		FrameCount: count,
	}, nil
}

func (s *Stage) decodeInput(ctx context.Context, path string, maxFrames int) ([]pipeline.DecodedFrame, error) {
	demux, err := s.demuxStage.Execute(ctx, pipeline.DemuxInput{Path: path})
	if err != nil {
		return nil, err
	}
	decode, err := s.decodeStage.Execute(ctx, pipeline.DecodeInput{
		Codec:        demux.Codec,
		Config:       demux.Config,
		Units:        demux.Units,
		MaxFrames:    maxFrames,
		RenderImages: true,
	})
	if err != nil {
		return nil, err
	}
	return decode.Frames, nil
}

func holdFrame(frames []pipeline.DecodedFrame, i int) image.Image {
	if i >= len(frames) {
		i = len(frames) - 1
	}
	return frames[i].Image
}

func drawFrame(canvas *image.RGBA, img image.Image, x int) {
	bounds := img.Bounds()
	rect := image.Rect(x, 0, x+bounds.Dx(), bounds.Dy())
	draw.Draw(canvas, rect, img, bounds.Min, draw.Src)
}

func outputName(path string, index, count int) string {
	if count <= 1 {
		return path
	}
	ext := ".png"
	base := path
	if len(path) > 4 && path[len(path)-4:] == ext {
		base = path[:len(path)-4]
	}
	return fmt.Sprintf("%s-%02d%s", base, index, ext)
}
