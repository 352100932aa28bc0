// Package annexb splits HEVC elementary streams into NAL units, both
// Annex B start-code framing and the length-prefixed framing used
// inside MP4 samples.
package annexb

import (
	"bytes"
	"fmt"
)

// HEVC NAL unit types that carry decoder configuration.
const (
	NALUTypeVPS = 32
	NALUTypeSPS = 33
	NALUTypePPS = 34
)

var startCode3 = []byte{0, 0, 1}

// NALUType returns the HEVC NAL unit type of a raw NAL unit.
func NALUType(nalu []byte) int {
	if len(nalu) == 0 {
		return -1
	}
	return int(nalu[0]>>1) & 0x3f
}

// IsParameterSet reports whether the NAL unit is a VPS, SPS or PPS.
func IsParameterSet(nalu []byte) bool {
	t := NALUType(nalu)
	return t == NALUTypeVPS || t == NALUTypeSPS || t == NALUTypePPS
}

// Split splits an Annex B stream into raw NAL units. Both 3-byte and
// 4-byte start codes are accepted; the start codes themselves are not
// included in the returned slices.
func Split(stream []byte) [][]byte {
	var nalus [][]byte

	start := bytes.Index(stream, startCode3)
	if start < 0 {
		return nil
	}
	start += len(startCode3)

	for start < len(stream) {
		next := bytes.Index(stream[start:], startCode3)
		if next < 0 {
			nalus = append(nalus, trimStartCodePrefix(stream[start:]))
			break
		}
		nalus = append(nalus, trimStartCodePrefix(stream[start:start+next]))
		start += next + len(startCode3)
	}

	return nalus
}

// A 4-byte start code looks like a NAL followed by a trailing zero once
// the 3-byte scan cuts it.
func trimStartCodePrefix(nalu []byte) []byte {
	for len(nalu) > 0 && nalu[len(nalu)-1] == 0 {
		nalu = nalu[:len(nalu)-1]
	}
	return nalu
}

// SplitLengthPrefixed splits an MP4 sample into raw NAL units, where
// each unit is preceded by a big-endian length of lengthSize bytes.
func SplitLengthPrefixed(sample []byte, lengthSize int) ([][]byte, error) {
	if lengthSize < 1 || lengthSize > 4 {
		return nil, fmt.Errorf("annexb: invalid NALU length size %d", lengthSize)
	}

	var nalus [][]byte
	for pos := 0; pos < len(sample); {
		if pos+lengthSize > len(sample) {
			return nil, fmt.Errorf("annexb: truncated NALU length at offset %d", pos)
		}
		naluLen := 0
		for i := 0; i < lengthSize; i++ {
			naluLen = naluLen<<8 | int(sample[pos+i])
		}
		pos += lengthSize
		if naluLen <= 0 || pos+naluLen > len(sample) {
			return nil, fmt.Errorf("annexb: NALU length %d out of range at offset %d", naluLen, pos)
		}
		nalus = append(nalus, sample[pos:pos+naluLen])
		pos += naluLen
	}

	return nalus, nil
}
