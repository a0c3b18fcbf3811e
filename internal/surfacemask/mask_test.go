package surfacemask

import (
	"bytes"
	"testing"

	"github.com/v4film/rasterdeck/bitmap"
)

func TestExtractThresholdZero(t *testing.T) {
	b, err := bitmap.Create(9, 1)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 9; x++ {
		if x%2 == 0 {
			b.Set(x, 0, 0xFFFFFFFF)
		}
	}

	got := Extract(b, 0)
	want := []byte{0b10101010, 0b10000000} // 9 columns, MSB-first, 2 bytes
	if !bytes.Equal(got, want) {
		t.Errorf("got %08b %08b, want %08b %08b", got[0], got[1], want[0], want[1])
	}
}

func TestExtractThresholdExcludesBoundary(t *testing.T) {
	b, err := bitmap.Create(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, 0x80000000) // alpha exactly at threshold: not set
	b.Set(1, 0, 0x81000000) // alpha above threshold: set

	got := Extract(b, 0x80)
	want := byte(0b01000000)
	if got[0] != want {
		t.Errorf("got %08b, want %08b", got[0], want)
	}
}
