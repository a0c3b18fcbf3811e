// Package palettefile imports and exports Windows .pal RIFF palette
// files, for interchange with BMP color tables and raw-indexed dumps.
package palettefile

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/image/riff"

	"github.com/v4film/rasterdeck/bitmap"
)

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const op = "palettefile"

// ImportRIFF reads a Windows .pal RIFF file and returns its palette
// entries in file order. Only palette version 3 is recognized.
func ImportRIFF(r io.Reader) ([]bitmap.Color, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, fmt.Errorf("riff header: %w", err))
	}
	if formType != palType {
		return nil, wrap(bitmap.UnsupportedFormat, fmt.Errorf("RIFF content type %q, want %q", formType, palType))
	}

	id, _, data, err := rd.Next()
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, fmt.Errorf("first chunk: %w", err))
	}
	if id != dataType {
		return nil, wrap(bitmap.UnsupportedFormat, fmt.Errorf("chunk type %q, want %q", id, dataType))
	}

	return readPaletteChunk(data)
}

func readPaletteChunk(r io.Reader) ([]bitmap.Color, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, wrap(bitmap.TruncatedInput, fmt.Errorf("palette header: %w", err))
	}

	version := binary.BigEndian.Uint16(head[0:2])
	if version != 3 {
		return nil, wrap(bitmap.MalformedHeader, fmt.Errorf("palette version %d, want 3", version))
	}
	count := binary.LittleEndian.Uint16(head[2:4])

	colors := make([]bitmap.Color, count)
	entry := make([]byte, 4)
	for i := range colors {
		if _, err := io.ReadFull(r, entry); err != nil {
			return colors[:i], wrap(bitmap.TruncatedInput, fmt.Errorf("color %d/%d: %w", i, count, err))
		}
		colors[i] = bitmap.Color{
			Red:   uint16(entry[0]) << 8,
			Green: uint16(entry[1]) << 8,
			Blue:  uint16(entry[2]) << 8,
		}
	}

	return colors, nil
}

// ExportRIFF writes colors as a Windows .pal RIFF file, returning the
// number of bytes written.
func ExportRIFF(w io.Writer, colors []bitmap.Color) (int64, error) {
	paletteSize := 4 + len(colors)*4 // version+count header, then 4 bytes/color
	docSize := 4 + 4 + 4 + paletteSize // form type + chunk id + chunk size + palette body

	var written int64
	if err := writeAll(w, &written, riffType[:]); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, leUint32(uint32(docSize))); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, palType[:]); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, dataType[:]); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, leUint32(uint32(paletteSize))); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, []byte{0x00, 0x03}); err != nil { // version 3, big-endian
		return written, wrap(bitmap.TruncatedInput, err)
	}
	if err := writeAll(w, &written, leUint16(uint16(len(colors)))); err != nil {
		return written, wrap(bitmap.TruncatedInput, err)
	}

	for i, c := range colors {
		entry := []byte{byte(c.Red >> 8), byte(c.Green >> 8), byte(c.Blue >> 8), 0x00}
		if err := writeAll(w, &written, entry); err != nil {
			return written, wrap(bitmap.TruncatedInput, fmt.Errorf("color %d/%d: %w", i, len(colors), err))
		}
	}

	return written, nil
}

func leUint32(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func leUint16(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

func writeAll(w io.Writer, written *int64, b []byte) error {
	n, err := w.Write(b)
	*written += int64(n)
	if err != nil {
		return err
	}
	if n != len(b) {
		return fmt.Errorf("short write %d/%d", n, len(b))
	}
	return nil
}

func wrap(kind bitmap.ErrorKind, err error) error {
	return bitmap.NewError(op, kind, err)
}
