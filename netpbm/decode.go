package netpbm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/pixelops"
)

const op = "netpbm"

// Decode reads any of the six Netpbm magic numbers (P1..P6) and returns
// the decoded image as a 32-bit ARGB Bitmap.
func Decode(r io.Reader) (*bitmap.Bitmap, error) {
	tk := newTokenizer(r)

	digit, err := readMagic(tk)
	if err != nil {
		return nil, err
	}

	width, err := readIntToken(tk)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	height, err := readIntToken(tk)
	if err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}

	maxValue := 1
	if digit != 1 && digit != 4 {
		maxValue, err = readIntToken(tk)
		if err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
	}

	if width == 0 || height == 0 {
		return nil, bitmap.NewError(op, bitmap.OutOfRangeValue, fmt.Errorf("zero dimension %dx%d", width, height))
	}
	if maxValue >= 65536 {
		return nil, bitmap.NewError(op, bitmap.OutOfRangeValue, fmt.Errorf("max_value %d >= 65536", maxValue))
	}

	channels := 1
	if digit == 3 || digit == 6 {
		channels = 3
	}
	binary := digit >= 4

	if binary {
		if err := tk.consumeOneWhitespace(); err != nil {
			return nil, wrap(bitmap.TruncatedInput, err)
		}
	}

	bmp, err := bitmap.Create(width, height)
	if err != nil {
		return nil, err
	}

	row := make([]byte, width*channels)
	for y := 0; y < height; y++ {
		if err := decodeRow(tk, row, digit, width, channels, maxValue); err != nil {
			return nil, err
		}

		rowOff := y * bmp.Stride
		dst := bmp.Pix[rowOff : rowOff+width*4]
		if channels == 1 {
			pixelops.ConvertRow(pixelops.Native, pixelops.GRAY, dst, row, width)
		} else {
			pixelops.ConvertRow(pixelops.Native, pixelops.RGB, dst, row, width)
		}
	}

	return bmp, nil
}

func readMagic(tk *tokenizer) (int, error) {
	tok, ok := tk.getToken()
	if !ok {
		return 0, bitmap.NewError(op, bitmap.TruncatedInput, fmt.Errorf("empty stream"))
	}
	if len(tok) != 2 || tok[0] != 'P' || tok[1] < '1' || tok[1] > '6' {
		return 0, bitmap.NewError(op, bitmap.UnsupportedFormat, fmt.Errorf("bad magic %q", tok))
	}
	return int(tok[1] - '0'), nil
}

func readIntToken(tk *tokenizer) (int, error) {
	tok, ok := tk.getToken()
	if !ok {
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.Atoi(string(tok))
	if err != nil {
		return 0, bitmap.NewError(op, bitmap.MalformedHeader, fmt.Errorf("expected integer, got %q", tok))
	}
	return v, nil
}

// decodeRow fills row (length width*channels, each entry scaled to
// 0..255) for one scanline of the given magic digit.
func decodeRow(tk *tokenizer, row []byte, digit, width, channels, maxValue int) error {
	switch digit {
	case 1: // ASCII PBM
		for x := 0; x < width; x++ {
			v, err := readIntToken(tk)
			if err != nil {
				return wrap(bitmap.TruncatedInput, err)
			}
			row[x] = scaleSample(v, 1)
		}
	case 2, 3: // ASCII PGM / PPM
		for i := 0; i < width*channels; i++ {
			v, err := readIntToken(tk)
			if err != nil {
				return wrap(bitmap.TruncatedInput, err)
			}
			if v > maxValue {
				return bitmap.NewError(op, bitmap.OutOfRangeValue, fmt.Errorf("sample %d exceeds max_value %d", v, maxValue))
			}
			row[i] = scaleSample(v, maxValue)
		}
	case 4: // binary PBM
		stride := (width + 7) / 8
		buf, err := readBinary(tk, stride)
		if err != nil {
			return err
		}
		pixelops.UnpackRow(row, buf, width, 1, true)
		for x := 0; x < width; x++ {
			row[x] = scaleSample(int(row[x]), 1)
		}
	case 5, 6: // binary PGM / PPM
		bytesPerSample := 1
		if maxValue >= 256 {
			bytesPerSample = 2
		}
		buf, err := readBinary(tk, width*channels*bytesPerSample)
		if err != nil {
			return err
		}
		for i := 0; i < width*channels; i++ {
			var v int
			if bytesPerSample == 1 {
				v = int(buf[i])
			} else {
				v = int(buf[i*2])<<8 | int(buf[i*2+1])
			}
			row[i] = scaleSample(v, maxValue)
		}
	}
	return nil
}

func readBinary(tk *tokenizer, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := tk.read(buf); err != nil {
		return nil, wrap(bitmap.TruncatedInput, err)
	}
	return buf, nil
}

func scaleSample(v, maxValue int) byte {
	return byte(v * 255 / maxValue)
}
