package bmp

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/internal/quantize"
	"github.com/v4film/rasterdeck/pixelops"
	"github.com/v4film/rasterdeck/streamio"
)

// EncodeBMP writes b as a BMP file, returning the number of bytes
// written. It first tries to quantize b into an indexed bitmap (the
// smallest depth among 1/4/8 bits that fits the palette); if b has more
// than 256 distinct colors it falls back to an uncompressed 24-bit RGB
// bitmap instead of approximating.
func EncodeBMP(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	indexed, err := quantize.Convert(b, false)
	if err == nil {
		n, err := encodeIndexed(w, indexed)
		if err != nil {
			return n, wrap(bitmap.TruncatedInput, err)
		}
		return n, nil
	}

	var be *bitmap.Error
	if errors.As(err, &be) && be.Kind == bitmap.OutOfRangeValue {
		n, err := encodeRGB24(w, b)
		if err != nil {
			return n, wrap(bitmap.TruncatedInput, err)
		}
		return n, nil
	}
	return 0, err
}

func encodeIndexed(w io.Writer, b *bitmap.IndexedBitmap) (int64, error) {
	depth := bmpDepth(len(b.Palette))
	stride := diskStride(b.Width, depth)
	colorTableBytes := len(b.Palette) * 4
	pixelDataSize := stride * b.Height
	offBits := uint32(14 + headerSizeInfo + colorTableBytes)
	fileSize := offBits + uint32(pixelDataSize)

	sw := streamio.NewWriter(w)
	if err := writeFileHeader(sw, fileSize, offBits); err != nil {
		return sw.N(), err
	}
	if err := writeInfoHeader(sw, b.Width, b.Height, depth, compressionRGB, uint32(pixelDataSize), uint32(len(b.Palette))); err != nil {
		return sw.N(), err
	}
	if err := writeColorTable(sw, b.Palette); err != nil {
		return sw.N(), err
	}

	row := make([]byte, b.Width)
	packed := make([]byte, stride)
	for y := b.Height - 1; y >= 0; y-- {
		copy(row, b.Pix[y*b.Stride:(y+1)*b.Stride])
		for i := range packed {
			packed[i] = 0
		}
		pixelops.PackRow(packed, row, b.Width, depth, true)
		if err := sw.WriteBytes(packed); err != nil {
			return sw.N(), err
		}
	}

	return sw.N(), nil
}

func encodeRGB24(w io.Writer, b *bitmap.Bitmap) (int64, error) {
	stride := diskStride(b.Width, 24)
	offBits := uint32(14 + headerSizeInfo)
	fileSize := offBits + uint32(stride*b.Height)

	sw := streamio.NewWriter(w)
	if err := writeFileHeader(sw, fileSize, offBits); err != nil {
		return sw.N(), err
	}
	if err := writeInfoHeader(sw, b.Width, b.Height, 24, compressionRGB, uint32(stride*b.Height), 0); err != nil {
		return sw.N(), err
	}

	row := make([]byte, stride)
	for y := b.Height - 1; y >= 0; y-- {
		for i := range row {
			row[i] = 0
		}
		rowOff := y * b.Stride
		pixelops.ConvertRow(pixelops.BGR, pixelops.Native, row, b.Pix[rowOff:rowOff+b.Width*4], b.Width)
		if err := sw.WriteBytes(row); err != nil {
			return sw.N(), err
		}
	}

	return sw.N(), nil
}

func writeFileHeader(sw *streamio.Writer, fileSize, offBits uint32) error {
	if err := sw.WriteBytes([]byte("BM")); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, fileSize); err != nil {
		return err
	}
	if err := sw.WriteU16(binary.LittleEndian, 0); err != nil {
		return err
	}
	if err := sw.WriteU16(binary.LittleEndian, 0); err != nil {
		return err
	}
	return sw.WriteU32(binary.LittleEndian, offBits)
}

func writeInfoHeader(sw *streamio.Writer, width, height, bitCount int, compression uint32, sizeImage, colorsUsed uint32) error {
	if err := sw.WriteU32(binary.LittleEndian, headerSizeInfo); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, uint32(int32(width))); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, uint32(int32(height))); err != nil {
		return err
	}
	if err := sw.WriteU16(binary.LittleEndian, 1); err != nil { // color planes
		return err
	}
	if err := sw.WriteU16(binary.LittleEndian, uint16(bitCount)); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, compression); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, sizeImage); err != nil {
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, 0); err != nil { // x pixels/meter
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, 0); err != nil { // y pixels/meter
		return err
	}
	if err := sw.WriteU32(binary.LittleEndian, colorsUsed); err != nil {
		return err
	}
	return sw.WriteU32(binary.LittleEndian, 0) // colors important
}

func writeColorTable(sw *streamio.Writer, palette []bitmap.Color) error {
	for _, c := range palette {
		entry := []byte{byte(c.Blue >> 8), byte(c.Green >> 8), byte(c.Red >> 8), 0}
		if err := sw.WriteBytes(entry); err != nil {
			return err
		}
	}
	return nil
}
