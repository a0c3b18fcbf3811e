package rawcodec

import (
	"bytes"
	"testing"

	"github.com/v4film/rasterdeck/bitmap"
	"github.com/v4film/rasterdeck/pixelops"
)

func TestEncodeRawTrueColorRGBA(t *testing.T) {
	b, err := bitmap.Create(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0xFFFF0000)
	b.Set(1, 0, 0xFF00FF00)

	var buf bytes.Buffer
	n, err := EncodeRawTrueColor(&buf, b, pixelops.RGBA)
	if err != nil {
		t.Fatalf("EncodeRawTrueColor: %v", err)
	}
	if n != 8 {
		t.Fatalf("wrote %d bytes, want 8", n)
	}
	want := []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
}

func TestEncodeRawIndexed(t *testing.T) {
	b, err := bitmap.Create(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0xFFFF0000)
	b.Set(1, 0, 0xFF00FF00)
	b.Set(2, 0, 0xFFFF0000)

	var buf bytes.Buffer
	n, err := EncodeRawIndexed(&buf, b)
	if err != nil {
		t.Fatalf("EncodeRawIndexed: %v", err)
	}
	if n == 0 {
		t.Fatal("wrote 0 bytes")
	}
}

func TestEncodeRawIndexedUsesDepth2ForThreeColors(t *testing.T) {
	b, err := bitmap.Create(4, 1)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0xFFFF0000)
	b.Set(1, 0, 0xFF00FF00)
	b.Set(2, 0, 0xFF0000FF)
	b.Set(3, 0, 0xFFFF0000)

	var buf bytes.Buffer
	n, err := EncodeRawIndexed(&buf, b)
	if err != nil {
		t.Fatalf("EncodeRawIndexed: %v", err)
	}

	// 3 distinct colors -> depth 2, not the BMP ladder's depth 4:
	// ceil(4*2/8) = 1 byte per row.
	wantStride := int64(pixelops.PackedRowSize(4, 2))
	if wantStride != 1 {
		t.Fatalf("test setup: expected stride 1, got %d", wantStride)
	}
	if n != wantStride {
		t.Errorf("wrote %d bytes, want %d", n, wantStride)
	}
}

func TestEncodeRawTrueColorRejectsNonTruecolorLayout(t *testing.T) {
	b, _ := bitmap.Create(1, 1)
	var buf bytes.Buffer
	if _, err := EncodeRawTrueColor(&buf, b, pixelops.GRAY); err == nil {
		t.Fatal("expected error for GRAY layout")
	}
}
