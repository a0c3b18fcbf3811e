package xfamily

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/internal/colorname"
)

// keyRank gives the priority order for XPM color-key selection: a color
// entry with both "c" and "s" keys present uses the "c" value. An entry
// whose only recognized key is "s" is rejected, since this decoder never
// resolves symbolic-only color names.
var keyRank = map[string]int{"s": 1, "m": 2, "g4": 3, "g": 4, "c": 5}

// DecodeXPM decodes either an XPM v1 (#define-driven) or XPM v3
// ("/* XPM */"-prefixed) pixmap source file.
func DecodeXPM(r io.Reader) (*bitmap.Bitmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, xpmErr(bitmap.TruncatedInput, "read: %v", err)
	}

	quoted := extractQuotedStrings(data)

	var width, height, ncolors, cpp int
	var colorStrings, pixelStrings []string

	head := data
	if len(head) > 64 {
		head = head[:64]
	}

	switch {
	case bytes.Contains(head, []byte("XPM")):
		if len(quoted) < 1 {
			return nil, xpmErr(bitmap.TruncatedInput, "missing hints string")
		}
		width, height, ncolors, cpp, err = parseHints(quoted[0])
		if err != nil {
			return nil, err
		}
		body := quoted[1:]
		if len(body) < ncolors+height {
			return nil, xpmErr(bitmap.TruncatedInput, "need %d color/pixel strings, got %d", ncolors+height, len(body))
		}
		colorStrings = body[:ncolors]
		pixelStrings = body[ncolors : ncolors+height]

	case bytes.Contains(data, []byte("#define")):
		width, height, ncolors, cpp, err = scanV1Defines(data)
		if err != nil {
			return nil, err
		}
		if len(quoted) < ncolors+height {
			return nil, xpmErr(bitmap.TruncatedInput, "need %d color/pixel strings, got %d", ncolors+height, len(quoted))
		}
		colorStrings = quoted[:ncolors]
		pixelStrings = quoted[ncolors : ncolors+height]

	default:
		return nil, xpmErr(bitmap.UnsupportedFormat, "neither XPM v3 preamble nor #define header found")
	}

	if width <= 0 || height <= 0 || cpp <= 0 {
		return nil, xpmErr(bitmap.OutOfRangeValue, "bad dimensions %dx%d cpp=%d", width, height, cpp)
	}

	table, err := buildColorTable(colorStrings, cpp)
	if err != nil {
		return nil, err
	}

	bmp, err := bitmap.Create(width, height)
	if err != nil {
		return nil, err
	}

	for y, row := range pixelStrings {
		if len(row) != width*cpp {
			return nil, xpmErr(bitmap.MalformedHeader, "pixel row %d has length %d, want %d", y, len(row), width*cpp)
		}
		for x := 0; x < width; x++ {
			code := row[x*cpp : (x+1)*cpp]
			col, ok := table[packCharsBigEndian(code)]
			if !ok {
				return nil, xpmErr(bitmap.MalformedHeader, "unresolved pixel character %q at row %d col %d", code, y, x)
			}
			bmp.Set(x, y, uint32(col.A)<<24|uint32(col.R)<<16|uint32(col.G)<<8|uint32(col.B))
		}
	}

	bmp.CheckTransparency()
	return bmp, nil
}

func parseHints(s string) (width, height, ncolors, cpp int, err error) {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return 0, 0, 0, 0, xpmErr(bitmap.MalformedHeader, "hints line has %d fields, want 4", len(fields))
	}
	vals := make([]int, 4)
	for i, f := range fields {
		v, convErr := strconv.Atoi(f)
		if convErr != nil {
			return 0, 0, 0, 0, xpmErr(bitmap.MalformedHeader, "non-integer hint %q", f)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func scanV1Defines(data []byte) (width, height, ncolors, cpp int, err error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Split(bufio.ScanWords)

	for sc.Scan() {
		if sc.Text() != "#define" {
			continue
		}
		if !sc.Scan() {
			break
		}
		key := sc.Text()
		if !sc.Scan() {
			break
		}
		value, convErr := strconv.Atoi(sc.Text())
		if convErr != nil {
			continue
		}

		switch {
		case strings.HasSuffix(key, "_width"):
			width = value
		case strings.HasSuffix(key, "_height"):
			height = value
		case strings.HasSuffix(key, "_ncolors"):
			ncolors = value
		case strings.HasSuffix(key, "_chars_per_pixel"):
			cpp = value
		}
	}

	if width == 0 || height == 0 || ncolors == 0 || cpp == 0 {
		return 0, 0, 0, 0, xpmErr(bitmap.MalformedHeader, "incomplete XPM v1 header defines")
	}
	return width, height, ncolors, cpp, nil
}

func buildColorTable(colorStrings []string, cpp int) (map[uint32]colorname.Color, error) {
	table := make(map[uint32]colorname.Color, len(colorStrings))

	for _, s := range colorStrings {
		if len(s) < cpp {
			return nil, xpmErr(bitmap.MalformedHeader, "color entry %q shorter than chars_per_pixel %d", s, cpp)
		}
		code := s[:cpp]
		fields := strings.Fields(s[cpp:])
		if len(fields)%2 != 0 {
			return nil, xpmErr(bitmap.MalformedHeader, "color entry %q has an unpaired key/value", s)
		}

		bestRank := -1
		bestColorTok := ""
		for i := 0; i+1 < len(fields); i += 2 {
			rank, ok := keyRank[fields[i]]
			if !ok {
				continue
			}
			if rank > bestRank {
				bestRank = rank
				bestColorTok = fields[i+1]
			}
		}

		if bestRank == keyRank["s"] {
			return nil, xpmErr(bitmap.MalformedHeader, "color entry %q only resolves via the symbolic \"s\" key", s)
		}
		if bestRank < 0 {
			return nil, xpmErr(bitmap.MalformedHeader, "color entry %q has no recognized key", s)
		}

		col, ok := colorname.Lookup(bestColorTok)
		if !ok {
			return nil, xpmErr(bitmap.MalformedHeader, "unresolvable color %q", bestColorTok)
		}
		table[packCharsBigEndian(code)] = col
	}

	return table, nil
}

func packCharsBigEndian(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		v = v<<8 | uint32(s[i])
	}
	return v
}

// extractQuotedStrings pulls out the contents of every double-quoted
// string literal in data, in order, honoring backslash escapes. Text
// outside quotes — defines, comments, braces — is ignored, which is
// sufficient for this decoder since none of that surrounding syntax
// contains a literal quote character.
func extractQuotedStrings(data []byte) []string {
	var out []string
	var cur []byte
	inQuote := false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if !inQuote {
			if c == '"' {
				inQuote = true
			}
			continue
		}
		if c == '\\' && i+1 < len(data) {
			cur = append(cur, data[i+1])
			i++
			continue
		}
		if c == '"' {
			out = append(out, string(cur))
			cur = nil
			inQuote = false
			continue
		}
		cur = append(cur, c)
	}

	return out
}

func xpmErr(kind bitmap.ErrorKind, format string, args ...any) error {
	return bitmap.NewError(op, kind, fmt.Errorf(format, args...))
}
