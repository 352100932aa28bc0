// Package codecdetect identifies the video codec of an MP4 file and
// extracts its compressed samples for decoding.
package codecdetect

import (
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/hevc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecAV1     Codec = "av1"
	CodecHEVC    Codec = "hevc"
	CodecVP9     Codec = "vp9"
	CodecUnknown Codec = "unknown"
)

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return CodecUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return DetectFromReader(f)
}

// DetectFromReader detects the video codec from an io.ReadSeeker.
func DetectFromReader(reader io.ReadSeeker) (Codec, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return CodecUnknown, fmt.Errorf("decode mp4: %w", err)
	}

	// Reset reader position for subsequent reads
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return CodecUnknown, fmt.Errorf("seek: %w", err)
	}

	return detectFromMP4File(mp4File)
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	reader := &bytesReadSeeker{data: data}
	return DetectFromReader(reader)
}

func detectFromMP4File(mp4File *mp4.File) (Codec, error) {
	for _, trak := range videoTracks(mp4File) {
		if codec := detectCodecFromTrack(trak); codec != CodecUnknown {
			return codec, nil
		}
	}
	return CodecUnknown, fmt.Errorf("no video track found")
}

func videoTracks(mp4File *mp4.File) []*mp4.TrakBox {
	var traks []*mp4.TrakBox
	if mp4File.IsFragmented() {
		if mp4File.Init != nil && mp4File.Init.Moov != nil {
			traks = mp4File.Init.Moov.Traks
		}
	} else if mp4File.Moov != nil {
		traks = mp4File.Moov.Traks
	}
	return traks
}

func detectCodecFromTrack(trak *mp4.TrakBox) Codec {
	stsd := sampleDescription(trak)
	if stsd == nil {
		return CodecUnknown
	}

	for _, child := range stsd.Children {
		switch child.Type() {
		case "av01":
			return CodecAV1
		case "hvc1", "hev1":
			return CodecHEVC
		case "vp09":
			return CodecVP9
		}
	}

	return CodecUnknown
}

func sampleDescription(trak *mp4.TrakBox) *mp4.StsdBox {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return nil
	}
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return nil
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl.Stsd
}

// Sample is one compressed video sample with its presentation timing.
type Sample struct {
	Data        []byte
	TimestampMs int
	DurationMs  int
	Keyframe    bool
}

// Track is a demultiplexed video track ready to be fed to a decoder.
// For HEVC, Config holds the out-of-band parameter set NAL units
// (VPS, SPS, PPS in push order) and NALULengthSize the length prefix
// width of the samples. AV1 and VP9 carry their configuration in-band.
type Track struct {
	Codec          Codec
	Config         [][]byte
	NALULengthSize int
	Samples        []Sample
}

// ReadTrack reads the first video track of a fragmented MP4 file.
func ReadTrack(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ReadTrackFromBytes(data)
}

// ReadTrackFromBytes reads the first video track from MP4 data bytes.
func ReadTrackFromBytes(data []byte) (*Track, error) {
	reader := &bytesReadSeeker{data: data}
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	if !mp4File.IsFragmented() {
		return nil, fmt.Errorf("progressive MP4 not supported, use fragmented MP4")
	}

	track := &Track{Codec: CodecUnknown, NALULengthSize: 4}

	// Find the video track, its timescale and its trex.
	var videoTrackID uint32
	var trex *mp4.TrexBox
	var timescale uint32 = 1000

	if mp4File.Init != nil && mp4File.Init.Moov != nil {
		for _, trak := range mp4File.Init.Moov.Traks {
			if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
				continue
			}
			videoTrackID = trak.Tkhd.TrackID
			if trak.Mdia.Mdhd != nil {
				timescale = trak.Mdia.Mdhd.Timescale
			}
			track.Codec = detectCodecFromTrack(trak)
			fillTrackConfig(track, trak)
			break
		}
		if mp4File.Init.Moov.Mvex != nil {
			for _, t := range mp4File.Init.Moov.Mvex.Trexs {
				if t.TrackID == videoTrackID {
					trex = t
					break
				}
			}
		}
	}

	if videoTrackID == 0 {
		return nil, fmt.Errorf("no video track found")
	}

	// Walk fragments in file order.
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}

			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != videoTrackID {
					continue
				}

				var baseDecodeTime uint64
				if traf.Tfdt != nil {
					baseDecodeTime = traf.Tfdt.BaseMediaDecodeTime()
				}

				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return nil, fmt.Errorf("get samples: %w", err)
				}

				currentTime := baseDecodeTime
				for _, sample := range samples {
					track.Samples = append(track.Samples, Sample{
						Data:        sample.Data,
						TimestampMs: int(currentTime * 1000 / uint64(timescale)),
						DurationMs:  int(uint64(sample.Dur) * 1000 / uint64(timescale)),
						Keyframe:    sample.Flags == mp4.SyncSampleFlags,
					})
					currentTime += uint64(sample.Dur)
				}
			}
		}
	}

	return track, nil
}

// fillTrackConfig pulls the HEVC decoder configuration out of the hvcC
// box. Parameter sets go out in VPS, SPS, PPS order since libde265 wants
// them before the first slice.
func fillTrackConfig(track *Track, trak *mp4.TrakBox) {
	stsd := sampleDescription(trak)
	if stsd == nil {
		return
	}

	for _, child := range stsd.Children {
		visual, ok := child.(*mp4.VisualSampleEntryBox)
		if !ok || visual.HvcC == nil {
			continue
		}
		hvcC := visual.HvcC
		track.NALULengthSize = int(hvcC.LengthSizeMinusOne) + 1
		for _, naluType := range []hevc.NaluType{hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS} {
			track.Config = append(track.Config, hvcC.GetNalusForType(naluType)...)
		}
		return
	}
}

// bytesReadSeeker implements io.ReadSeeker for a byte slice
type bytesReadSeeker struct {
	data   []byte
	offset int64
}

func (b *bytesReadSeeker) Read(p []byte) (n int, err error) {
	if b.offset >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n = copy(p, b.data[b.offset:])
	b.offset += int64(n)
	return n, nil
}

func (b *bytesReadSeeker) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = b.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(b.data)) + offset
	}
	if newOffset < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	b.offset = newOffset
	return newOffset, nil
}
