package pixelops

// concreteLayouts enumerates the seven distinct byte layouts that
// Native always resolves to one of; the conversion matrix is indexed by
// position in this list rather than by the raw Layout value so that
// Native collapses onto BGRA or ARGB instead of needing its own row.
var concreteLayouts = [7]Layout{RGBA, BGRA, ARGB, ABGR, RGB, BGR, GRAY}

func layoutIndex(l Layout) int {
	switch Resolve(l) {
	case RGBA:
		return 0
	case BGRA:
		return 1
	case ARGB:
		return 2
	case ABGR:
		return 3
	case RGB:
		return 4
	case BGR:
		return 5
	case GRAY:
		return 6
	default:
		panic("pixelops: unknown layout")
	}
}

type readerFunc func(src []byte, i int) (r, g, b, a uint8)
type writerFunc func(dst []byte, i int, r, g, b, a uint8)
type convertFunc func(dst, src []byte, width int)

// readers/writers implement the per-layout byte shuffling described in
// the data model: alpha defaults to 0xFF when a source layout carries
// none, grayscale input broadcasts to R=G=B with full alpha, and
// grayscale output premultiplies by alpha before collapsing to one
// channel — (R+G+B)*A / (0xFF*3), matching the original engine's
// non-standard luma formula, not Rec. 601/709 luma.
var readers = map[Layout]readerFunc{
	RGBA: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 4
		return src[o], src[o+1], src[o+2], src[o+3]
	},
	BGRA: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 4
		return src[o+2], src[o+1], src[o], src[o+3]
	},
	ARGB: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 4
		return src[o+1], src[o+2], src[o+3], src[o]
	},
	ABGR: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 4
		return src[o+3], src[o+2], src[o+1], src[o]
	},
	RGB: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 3
		return src[o], src[o+1], src[o+2], 0xFF
	},
	BGR: func(src []byte, i int) (r, g, b, a uint8) {
		o := i * 3
		return src[o+2], src[o+1], src[o], 0xFF
	},
	GRAY: func(src []byte, i int) (r, g, b, a uint8) {
		gray := src[i]
		return gray, gray, gray, 0xFF
	},
}

var writers = map[Layout]writerFunc{
	RGBA: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = r, g, b, a
	},
	BGRA: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = b, g, r, a
	},
	ARGB: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = a, r, g, b
	},
	ABGR: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 4
		dst[o], dst[o+1], dst[o+2], dst[o+3] = a, b, g, r
	},
	RGB: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 3
		dst[o], dst[o+1], dst[o+2] = r, g, b
	},
	BGR: func(dst []byte, i int, r, g, b, a uint8) {
		o := i * 3
		dst[o], dst[o+1], dst[o+2] = b, g, r
	},
	GRAY: func(dst []byte, i int, r, g, b, a uint8) {
		dst[i] = uint8((uint32(r)+uint32(g)+uint32(b))*uint32(a) / (0xFF * 3))
	},
}

// convertTable[src][dst] is built once at init from the reader/writer
// tables above: the compile-time-known 7x7 dispatch matrix the design
// notes call for, resolved by ConvertRow with a single lookup rather
// than a per-pixel type switch.
var convertTable [7][7]convertFunc

func init() {
	for si, s := range concreteLayouts {
		read := readers[s]
		for di, d := range concreteLayouts {
			write := writers[d]
			convertTable[si][di] = func(dst, src []byte, width int) {
				for i := 0; i < width; i++ {
					r, g, b, a := read(src, i)
					write(dst, i, r, g, b, a)
				}
			}
		}
	}
}

// ConvertRow converts width pixels from src (in srcLayout) to dst (in
// dstLayout). Native is resolved to its concrete layout first.
func ConvertRow(dstLayout, srcLayout Layout, dst, src []byte, width int) {
	convertTable[layoutIndex(srcLayout)][layoutIndex(dstLayout)](dst, src, width)
}
