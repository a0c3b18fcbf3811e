package colorname

import "testing"

func TestLookupNone(t *testing.T) {
	c, ok := Lookup("none")
	if !ok {
		t.Fatal("Lookup(none) should succeed")
	}
	if c != (Color{}) {
		t.Errorf("Lookup(none) = %+v, want zero value", c)
	}
}

func TestLookupHex(t *testing.T) {
	c, ok := Lookup("#1a2b3c")
	if !ok {
		t.Fatal("Lookup(#1a2b3c) should succeed")
	}
	want := Color{A: 0xFF, R: 0x1a, G: 0x2b, B: 0x3c}
	if c != want {
		t.Errorf("Lookup(#1a2b3c) = %+v, want %+v", c, want)
	}
}

func TestLookupX11Name(t *testing.T) {
	c, ok := Lookup("Red")
	if !ok {
		t.Fatal("Lookup(Red) should succeed via colornames")
	}
	if c.R != 0xFF || c.G != 0 || c.B != 0 || c.A != 0xFF {
		t.Errorf("Lookup(Red) = %+v, want pure red", c)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Lookup("notacolor"); ok {
		t.Error("Lookup(notacolor) should fail")
	}
}

func TestMustParseHexError(t *testing.T) {
	if _, err := MustParseHex("notacolor"); err == nil {
		t.Error("MustParseHex(notacolor) should fail")
	}
}
