// Package rawcodec implements the two raw pixel-dump encoders: full
// 4-channel truecolor in a chosen layout, and quantized indexed dumps.
package rawcodec

import (
	"fmt"
	"io"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/internal/quantize"
	"github.com/v4film/rasterdeck/pixelops"
)

const op = "rawcodec"

// EncodeRawTrueColor writes width*4*height bytes, top-down, with no row
// padding: each row converted from Native to layout. layout must be one
// of RGBA, BGRA, ARGB, ABGR.
func EncodeRawTrueColor(w io.Writer, b *bitmap.Bitmap, layout pixelops.Layout) (int64, error) {
	switch layout {
	case pixelops.RGBA, pixelops.BGRA, pixelops.ARGB, pixelops.ABGR:
	default:
		return 0, bitmap.NewError(op, bitmap.UnsupportedFormat, fmt.Errorf("layout %v is not a 4-channel truecolor layout", layout))
	}

	var written int64
	row := make([]byte, b.Width*4)
	for y := 0; y < b.Height; y++ {
		rowOff := y * b.Stride
		pixelops.ConvertRow(layout, pixelops.Native, row, b.Pix[rowOff:rowOff+b.Width*4], b.Width)
		n, err := w.Write(row)
		written += int64(n)
		if err != nil {
			return written, bitmap.NewError(op, bitmap.TruncatedInput, err)
		}
	}
	return written, nil
}

// EncodeRawIndexed quantizes b and writes ceil(width*depth/8) bytes per
// row, MSB-first, at the smallest depth among {1,2,4,8} that fits the
// resulting palette.
func EncodeRawIndexed(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	indexed, err := quantize.Convert(b, false)
	if err != nil {
		return 0, err
	}

	depth := imageDepth(len(indexed.Palette))
	stride := pixelops.PackedRowSize(indexed.Width, depth)

	var written int64
	packed := make([]byte, stride)
	for y := 0; y < indexed.Height; y++ {
		row := indexed.Pix[y*indexed.Stride : (y+1)*indexed.Stride]
		pixelops.PackRow(packed, row, indexed.Width, depth, true)
		n, err := w.Write(packed)
		written += int64(n)
		if err != nil {
			return written, bitmap.NewError(op, bitmap.TruncatedInput, err)
		}
	}
	return written, nil
}

// imageDepth is the raw-dump depth ladder {1,2,4,8}, with no 2->4
// promotion: unlike bmp.bmpDepth, a 3- or 4-color palette packs at depth
// 2, not 4.
func imageDepth(n int) int {
	switch {
	case n <= 2:
		return 1
	case n <= 4:
		return 2
	case n <= 16:
		return 4
	default:
		return 8
	}
}
