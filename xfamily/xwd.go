package xfamily

import (
	"encoding/binary"
	"io"
	"math/bits"
	"strings"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/pixelops"
	"github.com/v4film/rasterdeck/streamio"
)

// xwdHeader holds the 25 big-endian u32 fields of a fixed 100-byte XWD
// file header, in their declared order.
type xwdHeader struct {
	headerSize, fileVersion, pixmapFormat, pixmapDepth   uint32
	pixmapWidth, pixmapHeight, xOffset, byteOrder        uint32
	bitmapUnit, bitmapBitOrder, bitmapPad, bitsPerPixel   uint32
	bytesPerLine, visualClass                             uint32
	redMask, greenMask, blueMask, bitsPerRGB              uint32
	colormapEntries, ncolors                              uint32
	windowWidth, windowHeight, windowX, windowY           uint32
	windowBorderWidth                                     uint32
}

type xwdPaletteEntry struct {
	red, green, blue uint16
}

// DecodeXWD decodes an X Window Dump file into a Bitmap and the
// recorded window/image name.
func DecodeXWD(r io.Reader) (*bitmap.Bitmap, string, error) {
	sr := streamio.NewReader(r)

	h, err := readXWDHeader(sr)
	if err != nil {
		return nil, "", err
	}

	if h.fileVersion != 7 {
		return nil, "", xwdErr(bitmap.MalformedHeader, "file_version %d != 7", h.fileVersion)
	}
	if h.ncolors > 256 {
		return nil, "", xwdErr(bitmap.MalformedHeader, "ncolors %d > 256", h.ncolors)
	}
	nameLen := int64(h.headerSize) - 100
	if nameLen < 0 || nameLen > 256 {
		return nil, "", xwdErr(bitmap.MalformedHeader, "header_size %d implies name length %d outside [0,256]", h.headerSize, nameLen)
	}

	nameBytes, err := sr.ReadBytes(int(nameLen))
	if err != nil {
		return nil, "", xwdErr(bitmap.TruncatedInput, "name: %v", err)
	}
	name := strings.TrimRight(string(nameBytes), "\x00")

	palette := make(map[uint32]xwdPaletteEntry, h.ncolors)
	for i := uint32(0); i < h.ncolors; i++ {
		pixel, err := sr.ReadU32(binary.BigEndian)
		if err != nil {
			return nil, "", xwdErr(bitmap.TruncatedInput, "palette entry %d: %v", i, err)
		}
		red, err := sr.ReadU16(binary.BigEndian)
		if err != nil {
			return nil, "", xwdErr(bitmap.TruncatedInput, "palette entry %d: %v", i, err)
		}
		green, err := sr.ReadU16(binary.BigEndian)
		if err != nil {
			return nil, "", xwdErr(bitmap.TruncatedInput, "palette entry %d: %v", i, err)
		}
		blue, err := sr.ReadU16(binary.BigEndian)
		if err != nil {
			return nil, "", xwdErr(bitmap.TruncatedInput, "palette entry %d: %v", i, err)
		}
		if _, err := sr.ReadBytes(2); err != nil { // flags + pad
			return nil, "", xwdErr(bitmap.TruncatedInput, "palette entry %d: %v", i, err)
		}
		palette[pixel] = xwdPaletteEntry{red: red, green: green, blue: blue}
	}

	width, height := int(h.pixmapWidth), int(h.pixmapHeight)
	if width <= 0 || height <= 0 {
		return nil, "", xwdErr(bitmap.OutOfRangeValue, "bad dimensions %dx%d", width, height)
	}

	planes := 1
	if h.bitsPerPixel == 1 {
		planes = int(h.pixmapDepth)
		if planes < 1 {
			planes = 1
		}
	}
	bytesPerLine := int(h.bytesPerLine)
	body, err := sr.ReadBytes(bytesPerLine * height * planes)
	if err != nil {
		return nil, "", xwdErr(bitmap.TruncatedInput, "pixel body: %v", err)
	}

	bmp, err := bitmap.Create(width, height)
	if err != nil {
		return nil, "", err
	}

	if err := decodeXWDBody(bmp, body, bytesPerLine, int(h.bitsPerPixel), h.redMask, h.greenMask, h.blueMask, palette); err != nil {
		return nil, "", err
	}

	bmp.CheckTransparency()
	return bmp, name, nil
}

func readXWDHeader(sr *streamio.Reader) (*xwdHeader, error) {
	fields := make([]uint32, 25)
	for i := range fields {
		v, err := sr.ReadU32(binary.BigEndian)
		if err != nil {
			return nil, xwdErr(bitmap.TruncatedInput, "header field %d: %v", i, err)
		}
		fields[i] = v
	}
	return &xwdHeader{
		headerSize: fields[0], fileVersion: fields[1], pixmapFormat: fields[2], pixmapDepth: fields[3],
		pixmapWidth: fields[4], pixmapHeight: fields[5], xOffset: fields[6], byteOrder: fields[7],
		bitmapUnit: fields[8], bitmapBitOrder: fields[9], bitmapPad: fields[10], bitsPerPixel: fields[11],
		bytesPerLine: fields[12], visualClass: fields[13],
		redMask: fields[14], greenMask: fields[15], blueMask: fields[16], bitsPerRGB: fields[17],
		colormapEntries: fields[18], ncolors: fields[19],
		windowWidth: fields[20], windowHeight: fields[21], windowX: fields[22], windowY: fields[23],
		windowBorderWidth: fields[24],
	}, nil
}

func decodeXWDBody(bmp *bitmap.Bitmap, body []byte, bytesPerLine, bpp int, redMask, greenMask, blueMask uint32, palette map[uint32]xwdPaletteEntry) error {
	width, height := bmp.Width, bmp.Height

	switch bpp {
	case 1:
		indices := make([]byte, width)
		for y := 0; y < height; y++ {
			row := body[y*bytesPerLine : y*bytesPerLine+bytesPerLine]
			pixelops.UnpackRow(indices, row, width, 1, true)
			for x := 0; x < width; x++ {
				v := uint32(0xFF000000)
				if indices[x] != 0 {
					v = 0xFFFFFFFF
				}
				bmp.Set(x, y, v)
			}
		}

	case 4, 8:
		indices := make([]byte, width)
		for y := 0; y < height; y++ {
			row := body[y*bytesPerLine : y*bytesPerLine+bytesPerLine]
			if bpp == 8 {
				copy(indices, row[:width])
			} else {
				// Unlike the 1bpp case above, 4bpp nibbles are packed
				// LSB-first: pixel 0 is byte 0's low nibble.
				pixelops.UnpackRow(indices, row, width, 4, false)
			}
			for x := 0; x < width; x++ {
				// Keyed by the entry's stored pixel value, not its
				// position in the palette array; identical to a
				// position lookup for well-formed files (pixel ==
				// index) but correct even when a writer permutes them.
				entry := palette[uint32(indices[x])]
				v := uint32(0xFF000000) | (uint32(entry.red)&0xFF00)<<8 | (uint32(entry.green) & 0xFF00) | uint32(entry.blue)>>8
				bmp.Set(x, y, v)
			}
		}

	case 16:
		// XWD numeric fields, pixel samples included, are big-endian on
		// disk; pixelops.BitfieldConvertRow assembles little-endian
		// values (matching BMP), so masks are applied by hand here.
		for y := 0; y < height; y++ {
			row := body[y*bytesPerLine : y*bytesPerLine+bytesPerLine]
			for x := 0; x < width; x++ {
				v := uint32(binary.BigEndian.Uint16(row[x*2 : x*2+2]))
				r := extractMaskChannel(v, redMask)
				g := extractMaskChannel(v, greenMask)
				b := extractMaskChannel(v, blueMask)
				bmp.Set(x, y, 0xFF000000|uint32(r)<<16|uint32(g)<<8|uint32(b))
			}
		}

	case 32:
		for y := 0; y < height; y++ {
			row := body[y*bytesPerLine : y*bytesPerLine+bytesPerLine]
			for x := 0; x < width; x++ {
				v := binary.BigEndian.Uint32(row[x*4 : x*4+4])
				bmp.Set(x, y, v|0xFF000000)
			}
		}

	default:
		return xwdErr(bitmap.UnsupportedFormat, "bits_per_pixel %d", bpp)
	}

	return nil
}

// extractMaskChannel isolates mask's bits in v and left-justifies them
// into the top of an 8-bit field (low bits zero), matching the original
// engine's ((v & mask) >> shift) << (24 - redbits) rescale rather than a
// proportional 0-255 stretch.
func extractMaskChannel(v, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	bitsN := bits.Len32(mask >> uint(shift))
	return uint8(((v & mask) >> uint(shift)) << uint(8-bitsN))
}

func xwdErr(kind bitmap.ErrorKind, format string, args ...any) error {
	return xbmErr(kind, format, args...)
}
