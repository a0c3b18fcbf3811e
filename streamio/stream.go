// Package streamio gives every codec a thin, typed view over a byte
// stream: sequential reads/writes of u8/u16/u32, bulk byte transfers,
// relative seeking and an EOF test. Byte order is passed explicitly to
// each call (per the REDESIGN FLAGS in the module's spec) rather than
// toggled through shared state, so nothing needs restoring on any exit
// path.
package streamio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reader wraps an io.Reader (optionally an io.Seeker) with the typed
// reads every decoder in this module needs.
type Reader struct {
	r      io.Reader
	seeker io.Seeker
	br     *bufio.Reader
}

// NewReader wraps r. If r also implements io.Seeker, SeekCurrent can move
// in either direction; otherwise it can only move forward.
func NewReader(r io.Reader) *Reader {
	s, _ := r.(io.Seeker)
	return &Reader{r: r, seeker: s, br: bufio.NewReader(r)}
}

// ReadU8 reads a single byte.
func (s *Reader) ReadU8() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, wrapEOF("ReadU8", err)
	}
	return b, nil
}

// ReadU16 reads a 16-bit value in the given byte order.
func (s *Reader) ReadU16(order binary.ByteOrder) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(s.br, buf[:]); err != nil {
		return 0, wrapEOF("ReadU16", err)
	}
	return order.Uint16(buf[:]), nil
}

// ReadU32 reads a 32-bit value in the given byte order.
func (s *Reader) ReadU32(order binary.ByteOrder) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(s.br, buf[:]); err != nil {
		return 0, wrapEOF("ReadU32", err)
	}
	return order.Uint32(buf[:]), nil
}

// ReadBytes reads exactly n bytes.
func (s *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.br, buf); err != nil {
		return nil, wrapEOF("ReadBytes", err)
	}
	return buf, nil
}

// SeekCurrent moves n bytes relative to the current position. If the
// wrapped reader implements io.Seeker, it seeks that reader, accounting
// for bytes already buffered. Otherwise a forward move reads and
// discards n bytes, and a backward move returns an error.
func (s *Reader) SeekCurrent(n int64) error {
	if s.seeker == nil {
		if n < 0 {
			return fmt.Errorf("streamio: cannot seek backward on a non-seekable stream")
		}
		if n == 0 {
			return nil
		}
		_, err := io.CopyN(io.Discard, s.br, n)
		return err
	}
	// Discard whatever bufio has buffered so the seek lands correctly.
	buffered := int64(s.br.Buffered())
	s.br.Discard(s.br.Buffered())
	_, err := s.seeker.Seek(n-buffered, io.SeekCurrent)
	return err
}

// AtEOF reports whether the next read would fail with io.EOF.
func (s *Reader) AtEOF() bool {
	_, err := s.br.Peek(1)
	return err != nil
}

func wrapEOF(op string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("streamio: %s: %w", op, io.ErrUnexpectedEOF)
	}
	return fmt.Errorf("streamio: %s: %w", op, err)
}

// Writer wraps an io.Writer with the typed writes every encoder in this
// module needs, and counts total bytes written.
type Writer struct {
	w io.Writer
	n int64
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// N returns the total byte count written so far.
func (s *Writer) N() int64 { return s.n }

// WriteU8 writes a single byte.
func (s *Writer) WriteU8(v byte) error {
	return s.write([]byte{v})
}

// WriteU16 writes a 16-bit value in the given byte order.
func (s *Writer) WriteU16(order binary.ByteOrder, v uint16) error {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	return s.write(buf[:])
}

// WriteU32 writes a 32-bit value in the given byte order.
func (s *Writer) WriteU32(order binary.ByteOrder, v uint32) error {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return s.write(buf[:])
}

// WriteBytes writes b verbatim.
func (s *Writer) WriteBytes(b []byte) error {
	return s.write(b)
}

func (s *Writer) write(b []byte) error {
	n, err := s.w.Write(b)
	s.n += int64(n)
	if err != nil {
		return fmt.Errorf("streamio: write: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("streamio: write: short write %d/%d bytes", n, len(b))
	}
	return nil
}
