package frame

import (
	"testing"

	"github.com/user/decodekit/pkg/ports"
)

func TestChromaDims(t *testing.T) {
	tests := []struct {
		format ports.ChromaFormat
		w, h   int
		cw, ch int
	}{
		{ports.Chroma420, 640, 480, 320, 240},
		{ports.Chroma420, 641, 481, 321, 241},
		{ports.Chroma420, 1, 1, 1, 1},
		{ports.Chroma422, 640, 480, 320, 480},
		{ports.Chroma422, 641, 480, 321, 480},
		{ports.Chroma444, 640, 480, 640, 480},
		{ports.Chroma444, 641, 481, 641, 481},
	}

	for _, tt := range tests {
		cw, ch := ChromaDims(tt.format, tt.w, tt.h)
		if cw != tt.cw || ch != tt.ch {
			t.Errorf("ChromaDims(%d, %d, %d) = %dx%d, want %dx%d",
				tt.format, tt.w, tt.h, cw, ch, tt.cw, tt.ch)
		}
	}
}

func TestBytesPerSample(t *testing.T) {
	tests := []struct {
		bitDepth int
		expected int
	}{
		{8, 1},
		{10, 2},
		{12, 2},
	}

	for _, tt := range tests {
		if got := BytesPerSample(tt.bitDepth); got != tt.expected {
			t.Errorf("BytesPerSample(%d) = %d, want %d", tt.bitDepth, got, tt.expected)
		}
	}
}

func TestRecordRoundTrip(t *testing.T) {
	rec := Record{
		Width:        1920,
		Height:       1080,
		ChromaFormat: 420,
		BitDepth:     10,
		YPtr:         0x10001,
		UPtr:         0x10002,
		VPtr:         0x10003,
		YSize:        1920 * 1080 * 2,
		UVSize:       960 * 540 * 2,
	}

	buf, err := rec.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(buf) != RecordSize {
		t.Fatalf("record is %d bytes, want %d", len(buf), RecordSize)
	}

	var decoded Record
	if err := decoded.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if decoded != rec {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, rec)
	}
}

func TestRecordFieldOffsets(t *testing.T) {
	// The host reads fields at fixed offsets; the layout must be bit-exact.
	rec := Record{
		Width:        0x01020304,
		Height:       0x05060708,
		ChromaFormat: 422,
		BitDepth:     8,
		YPtr:         0xAABBCCDD,
		YSize:        0x11223344,
		UVSize:       0x55667788,
	}

	buf, err := rec.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	checks := []struct {
		offset   int
		expected [4]byte
	}{
		{0, [4]byte{0x04, 0x03, 0x02, 0x01}},
		{4, [4]byte{0x08, 0x07, 0x06, 0x05}},
		{8, [4]byte{0xA6, 0x01, 0x00, 0x00}},
		{12, [4]byte{0x08, 0x00, 0x00, 0x00}},
		{16, [4]byte{0xDD, 0xCC, 0xBB, 0xAA}},
		{28, [4]byte{0x44, 0x33, 0x22, 0x11}},
		{32, [4]byte{0x88, 0x77, 0x66, 0x55}},
	}

	for _, c := range checks {
		got := [4]byte{buf[c.offset], buf[c.offset+1], buf[c.offset+2], buf[c.offset+3]}
		if got != c.expected {
			t.Errorf("offset %d = %v, want %v", c.offset, got, c.expected)
		}
	}
}

func TestRecordUnmarshalShortBuffer(t *testing.T) {
	var rec Record
	if err := rec.UnmarshalBinary(make([]byte, RecordSize-1)); err == nil {
		t.Error("expected error for short buffer")
	}
}
