// Package xfamily implements the X11 bitmap (XBM), X11 pixmap (XPM v1
// and v3), and X Window Dump (XWD) decoders.
package xfamily

// Hotspot is the cursor focal point an XBM file may declare via its
// x_hot/y_hot defines.
type Hotspot struct {
	X, Y int
}

const op = "xfamily"
