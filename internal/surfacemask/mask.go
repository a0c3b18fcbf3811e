// Package surfacemask implements this module's concrete stand-in for the
// external SurfaceExtractMask collaborator: it packs a bitmap's alpha
// channel into a 1-bit-per-pixel MSB-first mask, one bit set wherever
// alpha is strictly greater than threshold.
package surfacemask

import "github.com/v4film/rasterdeck/bitmap"

// Extract packs b's alpha channel into rows of ceil(width/8) bytes each,
// MSB-first, returned as one contiguous buffer of height rows.
func Extract(b *bitmap.Bitmap, threshold uint8) []byte {
	rowBytes := (b.Width + 7) / 8
	out := make([]byte, rowBytes*b.Height)

	for y := 0; y < b.Height; y++ {
		row := out[y*rowBytes : (y+1)*rowBytes]
		for x := 0; x < b.Width; x++ {
			v := b.At(x, y)
			a := uint8(v >> 24)
			if a > threshold {
				row[x/8] |= 1 << uint(7-x%8)
			}
		}
	}

	return out
}
