// Package pixelops implements the row-level pixel plumbing every codec in
// this module shares: packing/unpacking sub-byte indexed rows, converting
// between pixel layouts, and decoding arbitrary bitfield masks.
package pixelops

import "encoding/binary"

// Layout names one of the eight closed pixel-byte-orderings from the
// bitmap data model. Native is a convenience alias that always resolves
// to whichever of BGRA/ARGB matches the host's word order; ConvertRow
// resolves it before doing any table lookup, so the conversion matrix
// itself only ever indexes by the seven concrete layouts.
type Layout int

const (
	RGBA Layout = iota
	BGRA
	ARGB
	ABGR
	RGB
	BGR
	GRAY
	Native
)

// nativeConcrete is the concrete layout Native resolves to on this host:
// BGRA on little-endian, ARGB on big-endian.
var nativeConcrete Layout

func init() {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		nativeConcrete = BGRA
	} else {
		nativeConcrete = ARGB
	}
}

// Resolve maps Native to its concrete layout and passes every other
// layout through unchanged.
func Resolve(l Layout) Layout {
	if l == Native {
		return nativeConcrete
	}
	return l
}

// BytesPerPixel returns the number of bytes one pixel occupies in l.
func BytesPerPixel(l Layout) int {
	switch Resolve(l) {
	case RGBA, BGRA, ARGB, ABGR:
		return 4
	case RGB, BGR:
		return 3
	case GRAY:
		return 1
	default:
		return 0
	}
}

// HasAlpha reports whether l carries an alpha channel.
func HasAlpha(l Layout) bool {
	switch Resolve(l) {
	case RGBA, BGRA, ARGB, ABGR:
		return true
	default:
		return false
	}
}
