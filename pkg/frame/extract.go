package frame

import (
	"fmt"

	"github.com/user/decodekit/pkg/ports"
)

// Extract copies a library-native decoded picture into a Frame with
// tightly packed planes. Reads use the library-reported stride, writes use
// the packed row width, so any internal padding is dropped in the copy.
//
// Extract never retains the picture; the caller closes it afterwards and
// the library is free to reuse its buffer.
func Extract(pic ports.Picture) (*Frame, error) {
	width := pic.Width()
	height := pic.Height()
	bitDepth := pic.BitDepth()
	chroma := pic.Chroma()

	if err := validate(width, height, bitDepth, chroma); err != nil {
		return nil, err
	}

	chromaW, chromaH := ChromaDims(chroma, width, height)
	bps := BytesPerSample(bitDepth)

	yRowBytes := width * bps
	uvRowBytes := chromaW * bps

	f := &Frame{
		Width:    width,
		Height:   height,
		Chroma:   chroma,
		BitDepth: bitDepth,
		Y:        make([]byte, yRowBytes*height),
		U:        make([]byte, uvRowBytes*chromaH),
		V:        make([]byte, uvRowBytes*chromaH),
	}

	if err := copyPlane(f.Y, pic, ports.PlaneY, yRowBytes, height); err != nil {
		return nil, err
	}
	if err := copyPlane(f.U, pic, ports.PlaneU, uvRowBytes, chromaH); err != nil {
		return nil, err
	}
	if err := copyPlane(f.V, pic, ports.PlaneV, uvRowBytes, chromaH); err != nil {
		return nil, err
	}

	return f, nil
}

// copyPlane copies rows*rowBytes samples from a strided source plane into
// a packed destination. Partial rows are rejected rather than truncated.
func copyPlane(dst []byte, pic ports.Picture, plane, rowBytes, rows int) error {
	src, stride := pic.Plane(plane)
	if src == nil {
		return fmt.Errorf("frame: missing plane %d", plane)
	}
	if stride < rowBytes {
		return fmt.Errorf("frame: plane %d stride %d shorter than row %d", plane, stride, rowBytes)
	}
	if need := stride*(rows-1) + rowBytes; len(src) < need {
		return fmt.Errorf("frame: plane %d has %d bytes, need %d", plane, len(src), need)
	}
	for row := 0; row < rows; row++ {
		copy(dst[row*rowBytes:(row+1)*rowBytes], src[row*stride:row*stride+rowBytes])
	}
	return nil
}
