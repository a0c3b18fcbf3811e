package streamio

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"
)

func TestReaderReadTypes(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0xAA, 0xBB}))

	b, err := r.ReadU8()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadU8 = %#x, %v", b, err)
	}

	u16, err := r.ReadU16(binary.LittleEndian)
	if err != nil || u16 != 0x0302 {
		t.Fatalf("ReadU16 = %#x, %v", u16, err)
	}

	u32, err := r.ReadU32(binary.BigEndian)
	if err != nil || u32 != 0x040500AA {
		t.Fatalf("ReadU32 = %#x, %v", u32, err)
	}

	rest, err := r.ReadBytes(1)
	if err != nil || !bytes.Equal(rest, []byte{0xBB}) {
		t.Fatalf("ReadBytes = % x, %v", rest, err)
	}

	if !r.AtEOF() {
		t.Error("AtEOF should be true after exhausting the stream")
	}
}

func TestReaderReadBytesTruncated(t *testing.T) {
	r := NewReader(strings.NewReader("ab"))
	if _, err := r.ReadBytes(4); err == nil {
		t.Error("ReadBytes past EOF should fail")
	}
}

func TestReaderSeekCurrentNonSeekable(t *testing.T) {
	// The anonymous struct hides strings.Reader's Seek method.
	r := NewReader(struct{ io.Reader }{strings.NewReader("abcdef")})
	if err := r.SeekCurrent(2); err != nil {
		t.Fatalf("SeekCurrent: %v", err)
	}
	b, err := r.ReadU8()
	if err != nil || b != 'c' {
		t.Fatalf("ReadU8 after seek = %q, %v", b, err)
	}

	if err := r.SeekCurrent(-1); err == nil {
		t.Error("SeekCurrent with negative n on a non-seekable stream should fail")
	}
}

func TestReaderSeekCurrentSeekable(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte("abcdef")))
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	if err := r.SeekCurrent(2); err != nil {
		t.Fatalf("SeekCurrent: %v", err)
	}
	b, err := r.ReadU8()
	if err != nil || b != 'd' {
		t.Fatalf("ReadU8 after seek = %q, %v", b, err)
	}
	if err := r.SeekCurrent(-2); err != nil {
		t.Fatalf("SeekCurrent backward: %v", err)
	}
	b, err = r.ReadU8()
	if err != nil || b != 'c' {
		t.Fatalf("ReadU8 after backward seek = %q, %v", b, err)
	}
}

func TestWriterWriteTypes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.WriteU8(0x01); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU16(binary.LittleEndian, 0x0302); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU32(binary.BigEndian, 0x04050607); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes([]byte{0xFF}); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0xFF}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("got % x, want % x", buf.Bytes(), want)
	}
	if w.N() != int64(len(want)) {
		t.Errorf("N() = %d, want %d", w.N(), len(want))
	}
}
