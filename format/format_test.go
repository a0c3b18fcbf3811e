package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/v4film/rasterdeck/bitmap"
)

func TestSniffNetpbm(t *testing.T) {
	kind, _, err := Sniff(strings.NewReader("P6\n1 1\n255\nABC"))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if kind != Netpbm {
		t.Errorf("kind = %v, want Netpbm", kind)
	}
}

func TestSniffXBM(t *testing.T) {
	kind, _, err := Sniff(strings.NewReader("#define foo_width 1\n"))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if kind != XBM {
		t.Errorf("kind = %v, want XBM", kind)
	}
}

func TestEncodeDecodePPMRoundTrip(t *testing.T) {
	b, err := bitmap.Create(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0xFFFF0000)
	b.Set(1, 0, 0xFF00FF00)
	b.Set(0, 1, 0xFF0000FF)
	b.Set(1, 1, 0xFFFFFFFF)

	var buf bytes.Buffer
	if _, err := Encode(&buf, b, EncodePPM); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, kind, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if kind != Netpbm {
		t.Errorf("kind = %v, want Netpbm", kind)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.At(x, y) != b.At(x, y) {
				t.Errorf("At(%d,%d) = %#08x, want %#08x", x, y, got.At(x, y), b.At(x, y))
			}
		}
	}
}

func TestKindFromExtension(t *testing.T) {
	if k, ok := KindFromExtension("BMP"); !ok || k != EncodeBMP {
		t.Errorf("KindFromExtension(BMP) = %v,%v", k, ok)
	}
	if _, ok := KindFromExtension("tiff"); ok {
		t.Error("KindFromExtension(tiff) should fail")
	}
}
