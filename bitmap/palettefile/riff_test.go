package palettefile

import (
	"bytes"
	"testing"

	"github.com/v4film/rasterdeck/bitmap"
)

func TestExportImportRIFFRoundTrip(t *testing.T) {
	colors := []bitmap.Color{
		{Red: 0xFF00, Green: 0x0000, Blue: 0x0000},
		{Red: 0x0000, Green: 0xFF00, Blue: 0x0000},
		{Red: 0x0000, Green: 0x0000, Blue: 0xFF00},
	}

	var buf bytes.Buffer
	if _, err := ExportRIFF(&buf, colors); err != nil {
		t.Fatalf("ExportRIFF: %v", err)
	}

	got, err := ImportRIFF(&buf)
	if err != nil {
		t.Fatalf("ImportRIFF: %v", err)
	}
	if len(got) != len(colors) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(colors))
	}
	for i, c := range colors {
		if got[i] != c {
			t.Errorf("color %d = %+v, want %+v", i, got[i], c)
		}
	}
}

func TestImportRIFFRejectsWrongFormType(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	buf.Write(leUint32(4))
	buf.WriteString("WAVE")

	if _, err := ImportRIFF(&buf); err == nil {
		t.Fatal("expected error for non-PAL RIFF form type")
	}
}

func TestExportRIFFEmptyPalette(t *testing.T) {
	var buf bytes.Buffer
	n, err := ExportRIFF(&buf, nil)
	if err != nil {
		t.Fatalf("ExportRIFF: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("n = %d, want %d", n, buf.Len())
	}

	got, err := ImportRIFF(&buf)
	if err != nil {
		t.Fatalf("ImportRIFF: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(got) = %d, want 0", len(got))
	}
}
