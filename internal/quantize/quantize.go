// Package quantize implements this module's concrete stand-in for the
// external ConvertBitmapToIndexed collaborator: an exact quantizer that
// deduplicates pixel colors into a palette of at most 256 entries and
// fails rather than approximate when an image has more distinct colors
// than that. This keeps "encode(decode(b)) preserves pixels iff the
// image has <= 256 distinct colors" true by construction.
package quantize

import (
	"fmt"

	"github.com/v4film/rasterdeck/bitmap"
)

// Convert builds an IndexedBitmap with one palette entry per distinct
// color in src, alpha included in the color key. When ignoreTransparent
// is true, every pixel with alpha below 0xFF is instead mapped to a
// single reserved transparent index, whatever its RGB value, so all
// translucent pixels share one palette entry; opaque pixels are keyed by
// RGB as before.
func Convert(src *bitmap.Bitmap, ignoreTransparent bool) (*bitmap.IndexedBitmap, error) {
	dst, err := bitmap.NewIndexedBitmap(src.Width, src.Height)
	if err != nil {
		return nil, err
	}

	type key struct {
		r, g, b, a uint8
	}
	index := make(map[key]int)
	transparentIndex := -1

	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v := src.At(x, y)
			a := uint8(v >> 24)
			r := uint8(v >> 16)
			g := uint8(v >> 8)
			b := uint8(v)

			var k key
			if ignoreTransparent && a < 0xFF {
				if transparentIndex == -1 {
					if len(dst.Palette) >= 256 {
						return nil, bitmap.NewError("quantize.Convert", bitmap.OutOfRangeValue,
							fmt.Errorf("more than 256 distinct colors"))
					}
					transparentIndex = len(dst.Palette)
					dst.Palette = append(dst.Palette, bitmap.Color{})
				}
				dst.Pix[y*dst.Stride+x] = byte(transparentIndex)
				continue
			}

			if ignoreTransparent {
				k = key{r, g, b, 0xFF}
			} else {
				k = key{r, g, b, a}
			}

			idx, ok := index[k]
			if !ok {
				if len(dst.Palette) >= 256 {
					return nil, bitmap.NewError("quantize.Convert", bitmap.OutOfRangeValue,
						fmt.Errorf("more than 256 distinct colors"))
				}
				idx = len(dst.Palette)
				index[k] = idx
				dst.Palette = append(dst.Palette, bitmap.Color{
					Red:   uint16(r) << 8,
					Green: uint16(g) << 8,
					Blue:  uint16(b) << 8,
				})
			}
			dst.Pix[y*dst.Stride+x] = byte(idx)
		}
	}

	if transparentIndex != -1 {
		if err := dst.AddTransparency(transparentIndex); err != nil {
			return nil, err
		}
	}

	return dst, nil
}
