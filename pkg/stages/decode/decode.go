// Package decode implements the decoding stage. It drives the flat
// handle-based decoder interface: create, configure, feed access units,
// drain, destroy, freeing every frame record it consumes.
package decode

import (
	"context"
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/user/decodekit/pkg/abi"
	"github.com/user/decodekit/pkg/adapters/preview"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// flushLimit bounds the drain loop after end of stream.
const flushLimit = 64

// Stage decodes an elementary stream through the registered codec
// libraries.
type Stage struct {
	exports *abi.Exports
	logger  ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(exports *abi.Exports, logger ports.Logger) *Stage {
	return &Stage{
		exports: exports,
		logger:  logger,
	}
}

// Execute decodes all access units and returns frames in output order.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	handle := s.exports.CreateDecoder(abi.Kind(input.Codec))
	if handle == 0 {
		return result, fmt.Errorf("cannot create %s decoder", input.Codec)
	}
	defer s.exports.Destroy(handle)

	for _, config := range input.Config {
		s.exports.Configure(handle, config)
	}

	// Timestamps are assigned to output frames in feed order; the
	// adapters emit frames in presentation order.
	var timestamps []int
	pop := func() int {
		if len(timestamps) == 0 {
			return 0
		}
		ts := timestamps[0]
		timestamps = timestamps[1:]
		return ts
	}

	done := func() bool {
		return input.MaxFrames > 0 && len(result.Frames) >= input.MaxFrames
	}

	for _, unit := range input.Units {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		if done() {
			return result, nil
		}

		timestamps = append(timestamps, unit.TimestampMs)
		token := s.exports.Decode(handle, unit.Data, unit.Keyframe)
		if token == 0 {
			continue
		}
		frame, err := s.takeFrame(token, pop(), input.RenderImages)
		if err != nil {
			return result, err
		}
		result.Frames = append(result.Frames, frame)
	}

	// Drain reordering delay.
	for i := 0; i < flushLimit && !done(); i++ {
		token := s.exports.Flush(handle)
		if token == 0 {
			break
		}
		frame, err := s.takeFrame(token, pop(), input.RenderImages)
		if err != nil {
			return result, err
		}
		result.Frames = append(result.Frames, frame)
	}

	if len(result.Frames) == 0 {
		return result, fmt.Errorf("decoder produced no frames")
	}

	s.logger.Debug(l10n.F("Decoded %d frames", len(result.Frames)))
	return result, nil
}

// takeFrame reassembles the frame behind a record token and always frees
// the token, so the stage never leaks table entries.
func (s *Stage) takeFrame(token uint32, timestampMs int, renderImage bool) (pipeline.DecodedFrame, error) {
	defer s.exports.FreeFrame(token)

	f, err := s.exports.Frame(token)
	if err != nil {
		return pipeline.DecodedFrame{}, fmt.Errorf("read frame record: %w", err)
	}

	decoded := pipeline.DecodedFrame{
		Frame:       f,
		TimestampMs: timestampMs,
	}
	if renderImage {
		img, err := preview.ToRGBA(f)
		if err != nil {
			return pipeline.DecodedFrame{}, fmt.Errorf("render frame: %w", err)
		}
		decoded.Image = img
	}
	return decoded, nil
}
