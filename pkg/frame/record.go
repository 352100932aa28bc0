package frame

import (
	"encoding/binary"
	"fmt"
)

// RecordSize is the byte length of the binary frame record header.
const RecordSize = 36

// Record is the fixed binary header describing one extracted frame.
// The plane fields hold opaque address tokens; how they resolve to plane
// bytes is up to the layer that issued them.
//
// The wire layout is nine 4-byte little-endian fields:
//
//	offset 0:  width
//	offset 4:  height
//	offset 8:  chromaFormat (420|422|444)
//	offset 12: bitDepth     (8|10)
//	offset 16: yPtr
//	offset 20: uPtr
//	offset 24: vPtr
//	offset 28: ySize
//	offset 32: uvSize
//
// Little-endian matches the 32-bit targets the layout was defined for.
type Record struct {
	Width        int32
	Height       int32
	ChromaFormat int32
	BitDepth     int32
	YPtr         uint32
	UPtr         uint32
	VPtr         uint32
	YSize        int32
	UVSize       int32
}

// MarshalBinary encodes the record into its fixed 36-byte layout.
func (r *Record) MarshalBinary() ([]byte, error) {
	buf := make([]byte, RecordSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(r.Width))
	le.PutUint32(buf[4:], uint32(r.Height))
	le.PutUint32(buf[8:], uint32(r.ChromaFormat))
	le.PutUint32(buf[12:], uint32(r.BitDepth))
	le.PutUint32(buf[16:], r.YPtr)
	le.PutUint32(buf[20:], r.UPtr)
	le.PutUint32(buf[24:], r.VPtr)
	le.PutUint32(buf[28:], uint32(r.YSize))
	le.PutUint32(buf[32:], uint32(r.UVSize))
	return buf, nil
}

// UnmarshalBinary decodes a 36-byte record header.
func (r *Record) UnmarshalBinary(buf []byte) error {
	if len(buf) != RecordSize {
		return fmt.Errorf("frame: record is %d bytes, want %d", len(buf), RecordSize)
	}
	le := binary.LittleEndian
	r.Width = int32(le.Uint32(buf[0:]))
	r.Height = int32(le.Uint32(buf[4:]))
	r.ChromaFormat = int32(le.Uint32(buf[8:]))
	r.BitDepth = int32(le.Uint32(buf[12:]))
	r.YPtr = le.Uint32(buf[16:])
	r.UPtr = le.Uint32(buf[20:])
	r.VPtr = le.Uint32(buf[24:])
	r.YSize = int32(le.Uint32(buf[28:]))
	r.UVSize = int32(le.Uint32(buf[32:]))
	return nil
}
