package bmp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/pixelops"
	"github.com/v4film/rasterdeck/streamio"
)

const op = "bmp"

// DecodeBMP decodes a BMP/DIB/cursor stream into a Bitmap. The returned
// Hotspot is only meaningful for cursor files; for ordinary bitmaps it
// is the zero value.
func DecodeBMP(r io.Reader) (*bitmap.Bitmap, Hotspot, error) {
	sr := streamio.NewReader(r)

	hotspot, offBits, err := readFileHeader(sr)
	if err != nil {
		return nil, Hotspot{}, err
	}

	headerSize, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return nil, Hotspot{}, wrap(bitmap.TruncatedInput, err)
	}

	dib, err := parseDIBHeader(sr, headerSize)
	if err != nil {
		return nil, Hotspot{}, err
	}

	bitFieldsSegmentSize := 0
	if dib.compression == compressionBitfields && headerSize == headerSizeInfo {
		if err := readLegacyBitfieldsSegment(sr, dib); err != nil {
			return nil, Hotspot{}, err
		}
		bitFieldsSegmentSize = 12
	}

	if dib.bitCount == 16 && dib.compression == compressionRGB {
		dib.compression = compressionBitfields
		dib.rMask, dib.gMask, dib.bMask, dib.aMask = 0x7C00, 0x03E0, 0x001F, 0
	}

	if dib.compression != compressionRGB && dib.compression != compressionBitfields {
		return nil, Hotspot{}, bitmap.NewError(op, bitmap.UnsupportedCompression,
			fmt.Errorf("compression code %d", dib.compression))
	}

	colorBytesPerEntry := 4
	if headerSize == headerSizeCore {
		colorBytesPerEntry = 3
	}
	colorTableBytes := 0
	var table []uint32
	if dib.bitCount <= 8 {
		table, colorTableBytes, err = readColorTable(sr, dib, colorBytesPerEntry)
		if err != nil {
			return nil, Hotspot{}, err
		}
	}

	currentOffset := int64(14) + int64(headerSize) + int64(bitFieldsSegmentSize) + int64(colorTableBytes)
	if err := skipGap(sr, currentOffset, int64(offBits)); err != nil {
		return nil, Hotspot{}, err
	}

	bmp, err := bitmap.Create(dib.width, dib.height)
	if err != nil {
		return nil, Hotspot{}, err
	}

	if err := decodeRows(sr, bmp, dib, table); err != nil {
		return nil, Hotspot{}, err
	}

	if dib.aMask != 0 {
		bmp.CheckTransparency()
	}

	return bmp, hotspot, nil
}

// DecodeConfig reads only enough of the header to report dimensions and
// pixel depth, without reading any pixel data.
func DecodeConfig(r io.Reader) (Config, error) {
	sr := streamio.NewReader(r)

	_, _, err := readFileHeader(sr)
	if err != nil {
		return Config{}, err
	}

	headerSize, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return Config{}, wrap(bitmap.TruncatedInput, err)
	}

	dib, err := parseDIBHeader(sr, headerSize)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Width:        dib.width,
		Height:       dib.height,
		BitsPerPixel: dib.bitCount,
		HasPalette:   dib.bitCount <= 8,
	}, nil
}

func readFileHeader(sr *streamio.Reader) (Hotspot, uint32, error) {
	magic, err := sr.ReadBytes(2)
	if err != nil {
		return Hotspot{}, 0, wrap(bitmap.TruncatedInput, err)
	}
	switch string(magic) {
	case "BM":
	case "BA", "CI", "CP", "IC", "PT":
		return Hotspot{}, 0, bitmap.NewError(op, bitmap.UnsupportedFormat, fmt.Errorf("OS/2 file type %q", magic))
	default:
		return Hotspot{}, 0, bitmap.NewError(op, bitmap.MalformedHeader, fmt.Errorf("bad magic %q", magic))
	}

	if _, err := sr.ReadU32(binary.LittleEndian); err != nil { // file size, unused on decode
		return Hotspot{}, 0, wrap(bitmap.TruncatedInput, err)
	}
	r1, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return Hotspot{}, 0, wrap(bitmap.TruncatedInput, err)
	}
	r2, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return Hotspot{}, 0, wrap(bitmap.TruncatedInput, err)
	}
	offBits, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return Hotspot{}, 0, wrap(bitmap.TruncatedInput, err)
	}

	return Hotspot{X: int(r1), Y: int(r2)}, offBits, nil
}

func parseDIBHeader(sr *streamio.Reader, headerSize uint32) (*dibHeader, error) {
	switch headerSize {
	case headerSizeCore:
		return parseCoreHeader(sr, headerSize)
	case headerSizeInfo, headerSizeV2, headerSizeV3, headerSizeV4, headerSizeV5:
		return parseInfoHeader(sr, headerSize)
	default:
		return nil, bitmap.NewError(op, bitmap.UnsupportedFormat, fmt.Errorf("DIB header size %d", headerSize))
	}
}

func parseCoreHeader(sr *streamio.Reader, headerSize uint32) (*dibHeader, error) {
	w, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	h, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	planes, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	bitCount, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	if planes != 1 {
		return nil, bitmap.NewError(op, bitmap.MalformedHeader, fmt.Errorf("color_planes %d != 1", planes))
	}
	if w == 0 || h == 0 {
		return nil, bitmap.NewError(op, bitmap.OutOfRangeValue, fmt.Errorf("zero dimension %dx%d", w, h))
	}

	d := &dibHeader{
		size:        headerSize,
		width:       int(w),
		height:      int(h),
		bitCount:    int(bitCount),
		compression: compressionRGB,
	}
	if d.bitCount >= 1 && d.bitCount <= 8 {
		d.colorCount = 1 << uint(d.bitCount)
	}
	return d, nil
}

func parseInfoHeader(sr *streamio.Reader, headerSize uint32) (*dibHeader, error) {
	rawWidth, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	rawHeight, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	planes, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	bitCount, err := sr.ReadU16(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	compression, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	if _, err := sr.ReadU32(binary.LittleEndian); err != nil { // sizeImage, unused on decode
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	if _, err := sr.ReadU32(binary.LittleEndian); err != nil { // x pixels/meter
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	if _, err := sr.ReadU32(binary.LittleEndian); err != nil { // y pixels/meter
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	colorsUsed, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	if _, err := sr.ReadU32(binary.LittleEndian); err != nil { // colorsImportant
		return nil, wrap(bitmap.TruncatedInput, err)
	}

	if planes != 1 {
		return nil, bitmap.NewError(op, bitmap.MalformedHeader, fmt.Errorf("color_planes %d != 1", planes))
	}

	width := int(int32(rawWidth))
	height := int(int32(rawHeight))
	topDown := false
	if height < 0 {
		topDown = true
		height = -height
	}
	if width <= 0 || height == 0 {
		return nil, bitmap.NewError(op, bitmap.OutOfRangeValue, fmt.Errorf("bad dimensions %dx%d", width, height))
	}

	d := &dibHeader{
		size:        headerSize,
		width:       width,
		height:      height,
		topDown:     topDown,
		bitCount:    int(bitCount),
		compression: compression,
	}

	if d.bitCount >= 1 && d.bitCount <= 8 {
		if colorsUsed == 0 {
			d.colorCount = 1 << uint(d.bitCount)
		} else {
			d.colorCount = int(colorsUsed)
		}
	}

	if headerSize >= headerSizeV2 {
		rMask, err := sr.ReadU32(binary.LittleEndian)
		if err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
		gMask, err := sr.ReadU32(binary.LittleEndian)
		if err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
		bMask, err := sr.ReadU32(binary.LittleEndian)
		if err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
		d.rMask, d.gMask, d.bMask = rMask, gMask, bMask
	}

	if headerSize >= headerSizeV3 {
		aMask, err := sr.ReadU32(binary.LittleEndian)
		if err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
		d.aMask = aMask
		d.hasAlphaField = true
	}

	if headerSize > headerSizeV3 {
		// BMPv4/v5 color-space fields: consumed and discarded, never
		// honored, per the module's decision not to apply gamma/CIE.
		if _, err := sr.ReadBytes(int(headerSize - headerSizeV3)); err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
	}

	return d, nil
}

func readLegacyBitfieldsSegment(sr *streamio.Reader, d *dibHeader) error {
	r, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return wrap(bitmap.TruncatedInput, err)
	}
	g, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return wrap(bitmap.TruncatedInput, err)
	}
	b, err := sr.ReadU32(binary.LittleEndian)
	if err != nil {
		return wrap(bitmap.TruncatedInput, err)
	}
	d.rMask, d.gMask, d.bMask = r, g, b
	return nil
}

func readColorTable(sr *streamio.Reader, d *dibHeader, bytesPerEntry int) ([]uint32, int, error) {
	tableSize := ceilPow2Entries(d.bitCount)
	table := make([]uint32, tableSize)

	n := d.colorCount
	totalBytes := n * bytesPerEntry
	buf, err := sr.ReadBytes(totalBytes)
	if err != nil {
		return nil, 0, wrap(bitmap.TruncatedInput, err)
	}

	for i := 0; i < n && i < tableSize; i++ {
		o := i * bytesPerEntry
		b, g, r := buf[o], buf[o+1], buf[o+2]
		table[i] = 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}

	return table, totalBytes, nil
}

func skipGap(sr *streamio.Reader, currentOffset, offBits int64) error {
	if currentOffset == offBits {
		return nil
	}
	if currentOffset > offBits {
		return bitmap.NewError(op, bitmap.MalformedHeader, fmt.Errorf("bad image offset %d (header already consumed %d bytes)", offBits, currentOffset))
	}
	if err := sr.SeekCurrent(offBits - currentOffset); err != nil {
		return wrap(bitmap.TruncatedInput, err)
	}
	return nil
}

func decodeRows(sr *streamio.Reader, bmp *bitmap.Bitmap, d *dibHeader, table []uint32) error {
	switch {
	case d.compression == compressionBitfields:
		return decodeBitfieldRows(sr, bmp, d)
	case d.bitCount <= 8:
		return decodeIndexedRows(sr, bmp, d, table)
	case d.bitCount == 24:
		return decodeRGB24Rows(sr, bmp, d)
	default:
		return bitmap.NewError(op, bitmap.UnsupportedFormat, fmt.Errorf("bit count %d under RGB compression", d.bitCount))
	}
}

func diskStride(width, bitCount int) int {
	return ((width*bitCount + 31) / 32) * 4
}

func dstRowIndex(d *dibHeader, srcRow int) int {
	if d.topDown {
		return srcRow
	}
	return d.height - srcRow - 1
}

func decodeIndexedRows(sr *streamio.Reader, bmp *bitmap.Bitmap, d *dibHeader, table []uint32) error {
	stride := diskStride(d.width, d.bitCount)
	indices := make([]byte, d.width)

	for row := 0; row < d.height; row++ {
		buf, err := sr.ReadBytes(stride)
		if err != nil {
			return wrap(bitmap.TruncatedInput, err)
		}

		pixelops.UnpackRow(indices, buf, d.width, d.bitCount, true)

		y := dstRowIndex(d, row)
		for x := 0; x < d.width; x++ {
			bmp.Set(x, y, table[indices[x]])
		}
	}
	return nil
}

func decodeRGB24Rows(sr *streamio.Reader, bmp *bitmap.Bitmap, d *dibHeader) error {
	stride := diskStride(d.width, 24)

	for row := 0; row < d.height; row++ {
		buf, err := sr.ReadBytes(stride)
		if err != nil {
			return wrap(bitmap.TruncatedInput, err)
		}

		y := dstRowIndex(d, row)
		rowOff := y * bmp.Stride
		pixelops.ConvertRow(pixelops.Native, pixelops.BGR, bmp.Pix[rowOff:rowOff+d.width*4], buf, d.width)
	}
	return nil
}

func decodeBitfieldRows(sr *streamio.Reader, bmp *bitmap.Bitmap, d *dibHeader) error {
	stride := diskStride(d.width, d.bitCount)

	for row := 0; row < d.height; row++ {
		buf, err := sr.ReadBytes(stride)
		if err != nil {
			return wrap(bitmap.TruncatedInput, err)
		}

		y := dstRowIndex(d, row)
		rowOff := y * bmp.Stride
		pixelops.BitfieldConvertRow(pixelops.Native, bmp.Pix[rowOff:rowOff+d.width*4], buf, d.width, d.bitCount, d.aMask, d.rMask, d.gMask, d.bMask)
	}
	return nil
}

func wrap(kind bitmap.ErrorKind, err error) error {
	return bitmap.NewError(op, kind, err)
}
