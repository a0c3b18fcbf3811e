// Package format dispatches decoding and encoding across every codec
// this module supports, by file extension for encode and by content
// sniffing for decode.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/bmp"
	"github.com/v4film/rasterdeck/netpbm"
	"github.com/v4film/rasterdeck/pixelops"
	"github.com/v4film/rasterdeck/rawcodec"
	"github.com/v4film/rasterdeck/xfamily"
)

// Kind identifies one of the formats this module's core can decode.
type Kind int

const (
	Unknown Kind = iota
	BMP
	Netpbm
	XBM
	XPM
	XWD
)

func (k Kind) String() string {
	switch k {
	case BMP:
		return "bmp"
	case Netpbm:
		return "netpbm"
	case XBM:
		return "xbm"
	case XPM:
		return "xpm"
	case XWD:
		return "xwd"
	default:
		return "unknown"
	}
}

// Sniff peeks at the first few bytes of r and reports which decoder can
// handle the stream, without consuming anything: it wraps r in a
// bufio.Reader and returns that reader so the caller's subsequent read
// sees the same bytes again.
func Sniff(r io.Reader) (Kind, *bufio.Reader, error) {
	br := bufio.NewReaderSize(r, 256)

	head, err := br.Peek(16)
	if err != nil && err != io.EOF {
		return Unknown, br, bitmap.NewError("format.Sniff", bitmap.TruncatedInput, err)
	}

	switch {
	case len(head) >= 2 && head[0] == 'B' && head[1] == 'M':
		return BMP, br, nil
	case len(head) >= 2 && head[0] == 'P' && head[1] >= '1' && head[1] <= '6':
		return Netpbm, br, nil
	case bytesContains(head, []byte("#define")):
		return XBM, br, nil
	case bytesContains(head, []byte("/* XPM")):
		return XPM, br, nil
	case isXWDHeader(head):
		return XWD, br, nil
	default:
		return Unknown, br, bitmap.NewError("format.Sniff", bitmap.UnsupportedFormat, fmt.Errorf("unrecognized header %q", head))
	}
}

func bytesContains(haystack, needle []byte) bool {
	return len(haystack) >= len(needle) && strings.Contains(string(haystack), string(needle))
}

// isXWDHeader guesses an XWD stream by checking that the big-endian
// file_version field (bytes 4..7) reads 7; XWD has no magic number.
func isXWDHeader(head []byte) bool {
	if len(head) < 8 {
		return false
	}
	v := uint32(head[4])<<24 | uint32(head[5])<<16 | uint32(head[6])<<8 | uint32(head[7])
	return v == 7
}

// Decode sniffs and decodes r, returning the bitmap and the format that
// was used. XBM/XWD carry extra metadata (name, hotspot) that callers
// needing it should call the per-format decoders directly for.
func Decode(r io.Reader) (*bitmap.Bitmap, Kind, error) {
	kind, br, err := Sniff(r)
	if err != nil {
		return nil, kind, err
	}

	switch kind {
	case BMP:
		b, _, err := bmp.DecodeBMP(br)
		return b, kind, err
	case Netpbm:
		b, err := netpbm.Decode(br)
		return b, kind, err
	case XBM:
		b, _, _, err := xfamily.DecodeXBM(br)
		return b, kind, err
	case XPM:
		b, err := xfamily.DecodeXPM(br)
		return b, kind, err
	case XWD:
		b, _, err := xfamily.DecodeXWD(br)
		return b, kind, err
	default:
		return nil, kind, bitmap.NewError("format.Decode", bitmap.UnsupportedFormat, fmt.Errorf("kind %v", kind))
	}
}

// EncodeKind identifies which encoder Encode should use; unlike Kind it
// only enumerates formats this module can write.
type EncodeKind int

const (
	EncodeBMP EncodeKind = iota
	EncodePPM
	EncodePGM
	EncodePBM
	EncodeRawRGBA
	EncodeRawBGRA
	EncodeRawARGB
	EncodeRawABGR
	EncodeRawIndexed
)

// Encode writes b to w using the requested encoder, returning the number
// of bytes written.
func Encode(w io.Writer, b *bitmap.Bitmap, kind EncodeKind) (int64, error) {
	switch kind {
	case EncodeBMP:
		return bmp.EncodeBMP(w, b)
	case EncodePPM:
		return netpbm.EncodePPM(w, b)
	case EncodePGM:
		return netpbm.EncodePGM(w, b)
	case EncodePBM:
		return netpbm.EncodePBM(w, b)
	case EncodeRawRGBA:
		return rawcodec.EncodeRawTrueColor(w, b, pixelops.RGBA)
	case EncodeRawBGRA:
		return rawcodec.EncodeRawTrueColor(w, b, pixelops.BGRA)
	case EncodeRawARGB:
		return rawcodec.EncodeRawTrueColor(w, b, pixelops.ARGB)
	case EncodeRawABGR:
		return rawcodec.EncodeRawTrueColor(w, b, pixelops.ABGR)
	case EncodeRawIndexed:
		return rawcodec.EncodeRawIndexed(w, b)
	default:
		return 0, bitmap.NewError("format.Encode", bitmap.UnsupportedFormat, fmt.Errorf("encode kind %v", kind))
	}
}

// KindFromExtension maps a lowercase file extension (without the dot) to
// the encoder it selects, for CLI-style dispatch.
func KindFromExtension(ext string) (EncodeKind, bool) {
	switch strings.ToLower(ext) {
	case "bmp":
		return EncodeBMP, true
	case "ppm":
		return EncodePPM, true
	case "pgm":
		return EncodePGM, true
	case "pbm":
		return EncodePBM, true
	case "raw", "rgba":
		return EncodeRawRGBA, true
	default:
		return 0, false
	}
}
