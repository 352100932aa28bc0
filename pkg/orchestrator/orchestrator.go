// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath string
	Codec     string // force a codec instead of detecting one

	// Decoding
	MaxFrames int

	// Output
	SaveYUV bool
	SavePNG bool

	// Contact sheet
	SheetEnabled    bool
	SheetColumns    int
	SheetThumbWidth int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		SaveYUV: true,
		SavePNG: false,

		SheetEnabled:    true,
		SheetColumns:    4,
		SheetThumbWidth: 160,
	}
}

// RunResult summarizes a completed decode run.
type RunResult struct {
	Codec        string
	Container    string
	UnitCount    int
	FrameCount   int
	Width        int
	Height       int
	BitDepth     int
	ChromaFormat int
	DurationMs   int
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	demuxStage  pipeline.Stage[pipeline.DemuxInput, pipeline.DemuxResult]
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	sheetStage  pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult]
	sink        ports.FrameSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	demuxStage pipeline.Stage[pipeline.DemuxInput, pipeline.DemuxResult],
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	sheetStage pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult],
	sink ports.FrameSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		demuxStage:  demuxStage,
		decodeStage: decodeStage,
		sheetStage:  sheetStage,
		sink:        sink,
		logger:      logger,
	}
}

// manifest is the JSON shape written next to the decoded frames.
type manifest struct {
	Codec        string          `json:"codec"`
	Container    string          `json:"container"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	BitDepth     int             `json:"bitDepth"`
	ChromaFormat int             `json:"chromaFormat"`
	Frames       []manifestFrame `json:"frames"`
}

type manifestFrame struct {
	Index       int `json:"index"`
	TimestampMs int `json:"timestampMs"`
	YSize       int `json:"ySize"`
	UVSize      int `json:"uvSize"`
}

// Run executes the complete pipeline.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	// 1. Demultiplex input
	o.logger.Info(l10n.F("Reading %s", config.InputPath))
	demux, err := o.demuxStage.Execute(ctx, pipeline.DemuxInput{
		Path:          config.InputPath,
		CodecOverride: config.Codec,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to read input: %s", err))
		return RunResult{}, fmt.Errorf("demux stage: %w", err)
	}
	o.logger.Info(l10n.F("Decoding %s (%s), %d access units", demux.Codec, demux.Container, len(demux.Units)))

	// 2. Decode
	decode, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{
		Codec:        demux.Codec,
		Config:       demux.Config,
		Units:        demux.Units,
		MaxFrames:    config.MaxFrames,
		RenderImages: config.SavePNG || config.SheetEnabled,
	})
	if err != nil {
		o.logger.Error(l10n.F("Failed to decode: %s", err))
		return RunResult{}, fmt.Errorf("decode stage: %w", err)
	}
	o.logger.Info(l10n.F("Decoded %d frames", len(decode.Frames)))

	// 3. Save per-frame output
	if o.sink.Enabled() {
		for i, f := range decode.Frames {
			if config.SaveYUV {
				if err := o.sink.SaveFrameYUV(i, packPlanes(f)); err != nil {
					return RunResult{}, fmt.Errorf("save frame %d: %w", i, err)
				}
			}
			if config.SavePNG && f.Image != nil {
				if err := o.sink.SaveFramePNG(i, f.Image); err != nil {
					return RunResult{}, fmt.Errorf("save frame %d: %w", i, err)
				}
			}
		}
	}

	// 4. Contact sheet (optional)
	if config.SheetEnabled && o.sink.Enabled() {
		o.logger.Info(l10n.T("Rendering contact sheet"))
		sheet, err := o.sheetStage.Execute(ctx, pipeline.SheetInput{
			Frames:     decode.Frames,
			Columns:    config.SheetColumns,
			ThumbWidth: config.SheetThumbWidth,
		})
		if err != nil {
			o.logger.Error(l10n.F("Failed to render contact sheet: %s", err))
			return RunResult{}, fmt.Errorf("sheet stage: %w", err)
		}
		if err := o.sink.SaveContactSheet(sheet.Sheet); err != nil {
			return RunResult{}, fmt.Errorf("save contact sheet: %w", err)
		}
	}

	// 5. Manifest
	first := decode.Frames[0].Frame
	if o.sink.Enabled() {
		m := manifest{
			Codec:        demux.Codec,
			Container:    demux.Container,
			Width:        first.Width,
			Height:       first.Height,
			BitDepth:     first.BitDepth,
			ChromaFormat: int(first.Chroma),
		}
		for i, f := range decode.Frames {
			m.Frames = append(m.Frames, manifestFrame{
				Index:       i,
				TimestampMs: f.TimestampMs,
				YSize:       f.Frame.YSize(),
				UVSize:      f.Frame.UVSize(),
			})
		}
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return RunResult{}, fmt.Errorf("encode manifest: %w", err)
		}
		if err := o.sink.SaveManifestJSON(data); err != nil {
			return RunResult{}, fmt.Errorf("save manifest: %w", err)
		}
	}

	o.logger.Info(l10n.T("Decode completed successfully"))

	last := decode.Frames[len(decode.Frames)-1]
	return RunResult{
		Codec:        demux.Codec,
		Container:    demux.Container,
		UnitCount:    len(demux.Units),
		FrameCount:   len(decode.Frames),
		Width:        first.Width,
		Height:       first.Height,
		BitDepth:     first.BitDepth,
		ChromaFormat: int(first.Chroma),
		DurationMs:   last.TimestampMs + lastDuration(demux.Units),
	}, nil
}

// packPlanes concatenates Y, U and V into one planar buffer.
func packPlanes(f pipeline.DecodedFrame) []byte {
	out := make([]byte, 0, len(f.Frame.Y)+len(f.Frame.U)+len(f.Frame.V))
	out = append(out, f.Frame.Y...)
	out = append(out, f.Frame.U...)
	out = append(out, f.Frame.V...)
	return out
}

func lastDuration(units []pipeline.AccessUnit) int {
	if len(units) == 0 {
		return 0
	}
	return units[len(units)-1].DurationMs
}
