package xfamily

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/pixelops"
)

// DecodeXBM decodes an X11 bitmap source file: a run of #define lines
// establishing width, height and an optional hotspot, followed by a
// NAME_bits[] array of packed hex bytes.
func DecodeXBM(r io.Reader) (*bitmap.Bitmap, string, Hotspot, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var name string
	width, height := -1, -1
	xHot, yHot := -1, -1

	for sc.Scan() {
		tok := sc.Text()

		if tok == "#define" {
			if !sc.Scan() {
				return nil, "", Hotspot{}, xbmErr(bitmap.TruncatedInput, "#define missing key")
			}
			key := sc.Text()
			if !sc.Scan() {
				return nil, "", Hotspot{}, xbmErr(bitmap.TruncatedInput, "#define missing value")
			}
			valTok := sc.Text()
			value, err := strconv.Atoi(valTok)
			if err != nil {
				return nil, "", Hotspot{}, xbmErr(bitmap.MalformedHeader, "non-numeric #define value %q", valTok)
			}

			prefix, field, ok := splitDefineKey(key)
			if !ok {
				continue
			}
			if name == "" {
				name = prefix
			} else if name != prefix {
				return nil, "", Hotspot{}, xbmErr(bitmap.MalformedHeader, "inconsistent define prefix %q, want %q", prefix, name)
			}

			switch field {
			case "width":
				width = value
			case "height":
				height = value
			case "x_hot":
				xHot = value
			case "y_hot":
				yHot = value
			}
			continue
		}

		if strings.Contains(tok, "_bits[]") {
			if width <= 0 || height <= 0 {
				return nil, "", Hotspot{}, xbmErr(bitmap.MalformedHeader, "bits array before width/height defined")
			}

			raw, err := readHexByteArray(sc)
			if err != nil {
				return nil, "", Hotspot{}, err
			}

			bmp, err := decodeXBMBits(raw, width, height)
			if err != nil {
				return nil, "", Hotspot{}, err
			}

			if xHot < 0 {
				xHot = width / 2
			}
			if yHot < 0 {
				yHot = height / 2
			}
			return bmp, name, Hotspot{X: xHot, Y: yHot}, nil
		}
	}

	return nil, "", Hotspot{}, xbmErr(bitmap.TruncatedInput, "no bits array found")
}

// splitDefineKey splits a "<name>_<field>" token into name and field,
// recognizing only the four fields this decoder understands.
func splitDefineKey(key string) (prefix, field string, ok bool) {
	for _, suffix := range []string{"_width", "_height", "_x_hot", "_y_hot"} {
		if strings.HasSuffix(key, suffix) {
			return key[:len(key)-len(suffix)], suffix[1:], true
		}
	}
	return "", "", false
}

// readHexByteArray consumes comma/space-separated hex byte literals
// until the token closing the initializer list (ending in '}') is seen.
func readHexByteArray(sc *bufio.Scanner) ([]byte, error) {
	var out []byte
	started := false

	for sc.Scan() {
		tok := sc.Text()

		if !started {
			if strings.Contains(tok, "{") {
				started = true
				tok = strings.TrimPrefix(tok, "=")
				idx := strings.IndexByte(tok, '{')
				tok = tok[idx+1:]
				if tok == "" {
					continue
				}
			} else {
				continue
			}
		}

		closes := strings.ContainsAny(tok, "}")
		tok = strings.Trim(tok, ",;{} \t")
		if tok != "" {
			v, err := strconv.ParseUint(tok, 0, 8)
			if err != nil {
				return nil, xbmErr(bitmap.MalformedHeader, "bad hex byte literal %q", tok)
			}
			out = append(out, byte(v))
		}
		if closes {
			return out, nil
		}
	}

	return nil, xbmErr(bitmap.TruncatedInput, "unterminated bits array")
}

func decodeXBMBits(raw []byte, width, height int) (*bitmap.Bitmap, error) {
	rowBytes := (width + 7) / 8
	if len(raw) < rowBytes*height {
		return nil, xbmErr(bitmap.TruncatedInput, "need %d packed bytes, got %d", rowBytes*height, len(raw))
	}

	bmp, err := bitmap.Create(width, height)
	if err != nil {
		return nil, err
	}

	indices := make([]byte, width)
	for y := 0; y < height; y++ {
		rowSrc := raw[y*rowBytes : (y+1)*rowBytes]
		pixelops.UnpackRow(indices, rowSrc, width, 1, false)
		for x := 0; x < width; x++ {
			v := uint32(0xFF000000)
			if indices[x] != 0 {
				v = 0xFFFFFFFF
			}
			bmp.Set(x, y, v)
		}
	}

	return bmp, nil
}

func xbmErr(kind bitmap.ErrorKind, format string, args ...any) error {
	return bitmap.NewError(op, kind, fmt.Errorf(format, args...))
}
