// Package colorname implements this module's concrete stand-in for the
// external LookupColor collaborator used by XPM's named-color entries.
package colorname

import (
	"fmt"
	"strconv"

	"golang.org/x/image/colornames"

	"github.com/v4film/rasterdeck/bitmap"
)

// Color is an ARGB color resolved from an XPM color key.
type Color struct {
	A, R, G, B uint8
}

// Lookup resolves name per XPM's color syntax: "none" (transparent),
// "#RRGGBB" (six hex digits), or an X11 color name via
// golang.org/x/image/colornames. The second return is false if name is
// none of those.
func Lookup(name string) (Color, bool) {
	if name == "none" || name == "None" {
		return Color{}, true
	}

	if len(name) == 7 && name[0] == '#' {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return Color{A: 0xFF, R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
		}
	}

	if c, ok := colornames.Map[lowerASCII(name)]; ok {
		return Color{A: c.A, R: c.R, G: c.G, B: c.B}, true
	}

	return Color{}, false
}

// MustParseHex parses a strict "#RRGGBB" string (six hex digits). Any
// other input, including "none" and X11 color names, yields a
// MalformedHeader error.
func MustParseHex(name string) (Color, error) {
	if len(name) != 7 || name[0] != '#' {
		return Color{}, bitmap.NewError("colorname.MustParseHex", bitmap.MalformedHeader, fmt.Errorf("not a #RRGGBB color %q", name))
	}
	c, ok := Lookup(name)
	if !ok {
		return Color{}, bitmap.NewError("colorname.MustParseHex", bitmap.MalformedHeader, fmt.Errorf("unresolvable color %q", name))
	}
	return c, nil
}

func lowerASCII(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}
