package netpbm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/v4film/rasterdeck/bitmap"
)

func TestDecodePPMBinary1x1(t *testing.T) {
	r := strings.NewReader("P6\n1 1\n255\nAB\xCD")
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.Width != 1 || b.Height != 1 {
		t.Fatalf("dims = %dx%d, want 1x1", b.Width, b.Height)
	}
	want := uint32(0xFF000000) | uint32('A')<<16 | uint32('B')<<8 | uint32(0xCD)
	if got := b.At(0, 0); got != want {
		t.Errorf("At(0,0) = %#08x, want %#08x", got, want)
	}
}

func TestDecodePBMBinary9x1(t *testing.T) {
	r := bytes.NewReader(append([]byte("P4\n9 1\n"), 0xFF, 0x80))
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b.Width != 9 || b.Height != 1 {
		t.Fatalf("dims = %dx%d, want 9x1", b.Width, b.Height)
	}
	for x := 0; x < 9; x++ {
		if got := b.At(x, 0); got != 0xFFFFFFFF {
			t.Errorf("At(%d,0) = %#08x, want 0xFFFFFFFF", x, got)
		}
	}
}

func TestDecodePBMAscii(t *testing.T) {
	r := strings.NewReader("P1\n3 1\n0 1 0\n")
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []uint32{0xFF000000, 0xFFFFFFFF, 0xFF000000}
	for x := 0; x < 3; x++ {
		if got := b.At(x, 0); got != want[x] {
			t.Errorf("At(%d,0) = %#08x, want %#08x", x, got, want[x])
		}
	}
}

func TestDecodePGMAscii16bit(t *testing.T) {
	r := strings.NewReader("P2\n2 1\n65535\n0 65535\n")
	b, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := b.At(0, 0); got != 0xFF000000 {
		t.Errorf("At(0,0) = %#08x, want 0xFF000000", got)
	}
	if got := b.At(1, 0); got != 0xFFFFFFFF {
		t.Errorf("At(1,0) = %#08x, want 0xFFFFFFFF", got)
	}
}

func TestEncodePPMDecodeRoundTrip(t *testing.T) {
	src, err := bitmap.Create(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	src.Set(0, 0, 0xFFFF0000)
	src.Set(1, 0, 0xFF00FF00)
	src.Set(0, 1, 0xFF0000FF)
	src.Set(1, 1, 0xFFFFFFFF)

	var buf bytes.Buffer
	if _, err := EncodePPM(&buf, src); err != nil {
		t.Fatalf("EncodePPM: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got.At(x, y) != src.At(x, y) {
				t.Errorf("At(%d,%d) = %#08x, want %#08x", x, y, got.At(x, y), src.At(x, y))
			}
		}
	}
}

func TestEncodePBMDecodeRoundTrip(t *testing.T) {
	src, err := bitmap.Create(9, 1)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 9; x++ {
		if x%2 == 0 {
			src.Set(x, 0, 0xFFFFFFFF) // opaque
		} else {
			src.Set(x, 0, 0x00FFFFFF) // fully transparent
		}
	}

	var buf bytes.Buffer
	if _, err := EncodePBM(&buf, src); err != nil {
		t.Fatalf("EncodePBM: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for x := 0; x < 9; x++ {
		srcOpaque := (src.At(x, 0) >> 24) > 0
		gotWhite := got.At(x, 0)&0x00FFFFFF == 0x00FFFFFF
		if srcOpaque != gotWhite {
			t.Errorf("At(%d,0): src opaque=%v, got white=%v", x, srcOpaque, gotWhite)
		}
	}
}

func TestDecodeBadMagic(t *testing.T) {
	_, err := Decode(strings.NewReader("P9\n1 1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDecodeZeroDimension(t *testing.T) {
	_, err := Decode(strings.NewReader("P2\n0 1\n255\n"))
	if err == nil {
		t.Fatal("expected error")
	}
}
