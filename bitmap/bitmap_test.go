package bitmap

import (
	"errors"
	"testing"
)

func TestCreateAtSet(t *testing.T) {
	b, err := Create(2, 2)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b.Set(1, 0, 0x80FF00AA)
	if got := b.At(1, 0); got != 0x80FF00AA {
		t.Errorf("At(1,0) = %#08x, want 0x80ff00aa", got)
	}
	if got := b.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %#08x, want 0", got)
	}
}

func TestCreateRejectsBadDimensions(t *testing.T) {
	if _, err := Create(0, 1); err == nil {
		t.Error("Create(0,1) should fail")
	}
	if _, err := Create(1, -1); err == nil {
		t.Error("Create(1,-1) should fail")
	}
}

func TestCheckTransparency(t *testing.T) {
	b, err := Create(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0xFFFFFFFF)
	b.Set(1, 0, 0x00000000)
	b.CheckTransparency()
	if !b.HasTransparency {
		t.Error("HasTransparency = false, want true")
	}
	if b.HasAlpha {
		t.Error("HasAlpha = true, want false (alpha is 0x00 or 0xFF only)")
	}

	b.Set(1, 0, 0x7F000000)
	b.CheckTransparency()
	if !b.HasAlpha {
		t.Error("HasAlpha = false, want true (alpha 0x7F is strictly between)")
	}
}

func TestIndexedBitmapAddTransparency(t *testing.T) {
	b, err := NewIndexedBitmap(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	b.Palette = []Color{{}, {Red: 0xFF00}}

	if err := b.AddTransparency(0); err != nil {
		t.Fatalf("AddTransparency: %v", err)
	}
	if !b.HasTransparency() {
		t.Error("HasTransparency() = false, want true")
	}

	if err := b.AddTransparency(1); err == nil {
		t.Error("AddTransparency with a different index should fail once set")
	}
	if err := b.AddTransparency(0); err != nil {
		t.Errorf("re-adding the same index should succeed, got %v", err)
	}
	if err := b.AddTransparency(5); err == nil {
		t.Error("AddTransparency(5) out of palette range should fail")
	}
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewError("bmp.Decode", MalformedHeader, nil)
	probe := NewError("", MalformedHeader, nil)
	if !errors.Is(err, probe) {
		t.Error("Error.Is should match on Kind alone")
	}

	other := NewError("", UnsupportedFormat, nil)
	if errors.Is(err, other) {
		t.Error("Error.Is should not match a different Kind")
	}
}
