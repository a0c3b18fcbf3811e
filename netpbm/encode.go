package netpbm

import (
	"fmt"
	"io"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/internal/surfacemask"
	"github.com/v4film/rasterdeck/pixelops"
)

// EncodePPM writes b as a binary PPM (P6): header, then rows top-down
// converted Native→RGB, three bytes per pixel, no padding. Alpha is
// dropped.
func EncodePPM(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	var written int64

	header := fmt.Sprintf("P6\n%d %d\n255\n", b.Width, b.Height)
	n, err := io.WriteString(w, header)
	written += int64(n)
	if err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}

	row := make([]byte, b.Width*3)
	for y := 0; y < b.Height; y++ {
		rowOff := y * b.Stride
		pixelops.ConvertRow(pixelops.RGB, pixelops.Native, row, b.Pix[rowOff:rowOff+b.Width*4], b.Width)
		n, err := w.Write(row)
		written += int64(n)
		if err != nil {
			return written, wrap(bitmap.TruncatedInput, err)
		}
	}
	return written, nil
}

// EncodePGM writes b as a binary PGM (P5): header, then rows top-down
// converted Native→GRAY, one byte per pixel.
func EncodePGM(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	var written int64

	header := fmt.Sprintf("P5\n%d %d\n255\n", b.Width, b.Height)
	n, err := io.WriteString(w, header)
	written += int64(n)
	if err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}

	row := make([]byte, b.Width)
	for y := 0; y < b.Height; y++ {
		rowOff := y * b.Stride
		pixelops.ConvertRow(pixelops.GRAY, pixelops.Native, row, b.Pix[rowOff:rowOff+b.Width*4], b.Width)
		n, err := w.Write(row)
		written += int64(n)
		if err != nil {
			return written, wrap(bitmap.TruncatedInput, err)
		}
	}
	return written, nil
}

// EncodePBM writes b as a binary PBM (P4): header (no max_value line),
// then rows packed 1-bit MSB-first from the alpha-channel mask extracted
// with threshold 0, so any pixel with alpha > 0 sets its bit.
func EncodePBM(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	var written int64

	header := fmt.Sprintf("P4\n%d %d\n", b.Width, b.Height)
	n, err := io.WriteString(w, header)
	written += int64(n)
	if err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}

	mask := surfacemask.Extract(b, 0)
	n, err = w.Write(mask)
	written += int64(n)
	if err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	return written, nil
}

func wrap(kind bitmap.ErrorKind, err error) error {
	return bitmap.NewError(op, kind, err)
}
