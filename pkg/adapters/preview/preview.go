// Package preview renders decoded frames into viewable images: single
// frame conversion to RGBA and contact sheets for quick inspection.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/ports"
)

// ToRGBA converts a decoded frame to an 8-bit RGBA image using BT.601
// limited-range coefficients. High bit depth samples are reduced to
// 8 bits first.
func ToRGBA(f *frame.Frame) (*image.RGBA, error) {
	width := f.Width
	height := f.Height
	bps := frame.BytesPerSample(f.BitDepth)
	shift := f.BitDepth - 8

	chromaW, _ := frame.ChromaDims(f.Chroma, width, height)

	yStride := width * bps
	uvStride := chromaW * bps

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cx, cy := chromaIndex(f.Chroma, x, y)

			yVal := sample(f.Y, y*yStride+x*bps, bps, shift)
			uVal := sample(f.U, cy*uvStride+cx*bps, bps, shift)
			vVal := sample(f.V, cy*uvStride+cx*bps, bps, shift)

			// YUV to RGB conversion
			c := yVal - 16
			d := uVal - 128
			e := vVal - 128

			r := clamp((298*c + 409*e + 128) >> 8)
			g := clamp((298*c - 100*d - 208*e + 128) >> 8)
			b := clamp((298*c + 516*d + 128) >> 8)

			rgba.SetRGBA(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}

	return rgba, nil
}

func chromaIndex(format ports.ChromaFormat, x, y int) (int, int) {
	switch format {
	case ports.Chroma444:
		return x, y
	case ports.Chroma422:
		return x / 2, y
	default:
		return x / 2, y / 2
	}
}

func sample(plane []byte, idx, bps, shift int) int {
	if bps == 2 {
		v := int(plane[idx]) | int(plane[idx+1])<<8
		return v >> shift
	}
	return int(plane[idx])
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

const (
	sheetMargin = 8
	labelHeight = 16
)

// ContactSheet lays decoded frames out in a labeled grid. Thumbnails
// are scaled to thumbWidth keeping aspect ratio.
func ContactSheet(frames []*frame.Frame, columns, thumbWidth int, labels []string) (image.Image, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("preview: no frames to render")
	}
	if columns < 1 {
		columns = 1
	}

	thumbHeight := frames[0].Height * thumbWidth / frames[0].Width
	rows := (len(frames) + columns - 1) / columns

	cellW := thumbWidth + sheetMargin
	cellH := thumbHeight + labelHeight + sheetMargin
	dc := gg.NewContext(columns*cellW+sheetMargin, rows*cellH+sheetMargin)
	dc.SetColor(color.White)
	dc.Clear()

	for i, f := range frames {
		rgba, err := ToRGBA(f)
		if err != nil {
			return nil, fmt.Errorf("preview: frame %d: %w", i, err)
		}

		x := sheetMargin + (i%columns)*cellW
		y := sheetMargin + (i/columns)*cellH
		dc.DrawImage(resize(rgba, thumbWidth, thumbHeight), x, y)

		label := fmt.Sprintf("#%d", i)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}
		dc.SetColor(color.Black)
		dc.DrawString(label, float64(x), float64(y+thumbHeight+12))
	}

	return dc.Image(), nil
}

func resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
