// Package demux implements the input demultiplexing stage. It turns a
// container file into a codec name plus a sequence of access units.
package demux

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/user/decodekit/pkg/adapters/annexb"
	"github.com/user/decodekit/pkg/adapters/codecdetect"
	"github.com/user/decodekit/pkg/adapters/ivf"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
)

// Stage demultiplexes MP4, IVF and raw Annex B inputs.
type Stage struct {
	fs ports.FileSystem
}

// NewStage creates a new demux stage.
func NewStage(fs ports.FileSystem) *Stage {
	return &Stage{fs: fs}
}

// Execute reads the input file and extracts its elementary stream.
func (s *Stage) Execute(ctx context.Context, input pipeline.DemuxInput) (pipeline.DemuxResult, error) {
	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return pipeline.DemuxResult{}, fmt.Errorf("read input: %w", err)
	}

	var result pipeline.DemuxResult
	switch ext := strings.ToLower(filepath.Ext(input.Path)); ext {
	case ".mp4", ".m4v", ".mov":
		result, err = demuxMP4(data)
	case ".ivf":
		result, err = demuxIVF(data)
	case ".hevc", ".h265", ".265":
		result, err = demuxAnnexB(data)
	default:
		return pipeline.DemuxResult{}, fmt.Errorf("unsupported input format %q", ext)
	}
	if err != nil {
		return pipeline.DemuxResult{}, err
	}

	if input.CodecOverride != "" {
		result.Codec = input.CodecOverride
	}
	if result.Codec == "" || result.Codec == string(codecdetect.CodecUnknown) {
		return pipeline.DemuxResult{}, fmt.Errorf("could not determine codec, use an explicit codec override")
	}
	if len(result.Units) == 0 {
		return pipeline.DemuxResult{}, fmt.Errorf("no access units found in %s", input.Path)
	}

	return result, nil
}

func demuxMP4(data []byte) (pipeline.DemuxResult, error) {
	track, err := codecdetect.ReadTrackFromBytes(data)
	if err != nil {
		return pipeline.DemuxResult{}, err
	}

	result := pipeline.DemuxResult{
		Codec:     string(track.Codec),
		Container: "mp4",
		Config:    track.Config,
	}

	for _, sample := range track.Samples {
		if track.Codec != codecdetect.CodecHEVC {
			result.Units = append(result.Units, pipeline.AccessUnit{
				Data:        sample.Data,
				TimestampMs: sample.TimestampMs,
				DurationMs:  sample.DurationMs,
				Keyframe:    sample.Keyframe,
			})
			continue
		}

		// HEVC samples hold length-prefixed NAL units. The decoder wants
		// them one at a time, all sharing the sample's timestamp.
		nalus, err := annexb.SplitLengthPrefixed(sample.Data, track.NALULengthSize)
		if err != nil {
			return pipeline.DemuxResult{}, fmt.Errorf("split sample NALUs: %w", err)
		}
		for _, nalu := range nalus {
			result.Units = append(result.Units, pipeline.AccessUnit{
				Data:        nalu,
				TimestampMs: sample.TimestampMs,
				DurationMs:  sample.DurationMs,
				Keyframe:    sample.Keyframe,
			})
		}
	}

	return result, nil
}

func demuxIVF(data []byte) (pipeline.DemuxResult, error) {
	reader, err := ivf.NewReader(bytes.NewReader(data))
	if err != nil {
		return pipeline.DemuxResult{}, err
	}

	header := reader.Header()
	result := pipeline.DemuxResult{Container: "ivf"}
	switch header.FourCC {
	case ivf.FourCCAV1:
		result.Codec = string(codecdetect.CodecAV1)
	case ivf.FourCCVP9:
		result.Codec = string(codecdetect.CodecVP9)
	default:
		return pipeline.DemuxResult{}, fmt.Errorf("unsupported IVF fourCC %q", header.FourCC)
	}

	frameDurMs := 0
	if header.TimebaseDen > 0 {
		frameDurMs = int(uint64(header.TimebaseNum) * 1000 / uint64(header.TimebaseDen))
	}

	for {
		f, err := reader.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pipeline.DemuxResult{}, err
		}
		timestampMs := 0
		if header.TimebaseDen > 0 {
			timestampMs = int(f.PTS * uint64(header.TimebaseNum) * 1000 / uint64(header.TimebaseDen))
		}
		result.Units = append(result.Units, pipeline.AccessUnit{
			Data:        f.Data,
			TimestampMs: timestampMs,
			DurationMs:  frameDurMs,
			// IVF carries no sync flags; the decoders find key frames
			// in the bitstream themselves.
			Keyframe: len(result.Units) == 0,
		})
	}

	return result, nil
}

// HEVC IRAP NAL unit type range.
const (
	naluTypeBLA = 16
	naluTypeRSV = 23
)

func demuxAnnexB(data []byte) (pipeline.DemuxResult, error) {
	result := pipeline.DemuxResult{
		Codec:     string(codecdetect.CodecHEVC),
		Container: "annexb",
	}

	for _, nalu := range annexb.Split(data) {
		if annexb.IsParameterSet(nalu) {
			result.Config = append(result.Config, nalu)
			continue
		}
		t := annexb.NALUType(nalu)
		result.Units = append(result.Units, pipeline.AccessUnit{
			Data:     nalu,
			Keyframe: t >= naluTypeBLA && t <= naluTypeRSV,
		})
	}

	return result, nil
}
