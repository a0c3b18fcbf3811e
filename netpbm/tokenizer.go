// Package netpbm implements the PBM/PGM/PPM decoders (all six magic
// numbers) and the PPM/PBM/PGM encoders.
package netpbm

import "io"

const ringBufferSize = 256

// tokenizer scans whitespace-delimited tokens and '#'-to-newline comments
// out of a mixed ASCII/binary stream using a small refillable ring
// buffer, so that header parsing and binary pixel reads share one
// lookahead window without ever reading past what the header consumed.
type tokenizer struct {
	r      io.Reader
	buf    []byte
	start  int // index of first unread byte
	end    int // index one past the last buffered byte
	atEOF  bool
}

func newTokenizer(r io.Reader) *tokenizer {
	return &tokenizer{r: r, buf: make([]byte, ringBufferSize)}
}

// ensure guarantees at least k unread bytes are buffered, unless the
// stream hits EOF first, in which case it buffers as many as exist.
func (t *tokenizer) ensure(k int) error {
	for t.end-t.start < k && !t.atEOF {
		if t.start > 0 {
			copy(t.buf, t.buf[t.start:t.end])
			t.end -= t.start
			t.start = 0
		}
		if t.end == len(t.buf) {
			grown := make([]byte, len(t.buf)*2)
			copy(grown, t.buf[:t.end])
			t.buf = grown
		}
		n, err := t.r.Read(t.buf[t.end:])
		t.end += n
		if err != nil {
			if err == io.EOF {
				t.atEOF = true
				break
			}
			return err
		}
		if n == 0 {
			t.atEOF = true
			break
		}
	}
	if t.end-t.start < k {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// skipWhitespaceAndComments advances past runs of whitespace and
// '#'-to-newline comments, refilling one byte at a time.
func (t *tokenizer) skipWhitespaceAndComments() error {
	for {
		if err := t.ensure(1); err != nil {
			return err
		}
		b := t.buf[t.start]
		if isSpace(b) {
			t.start++
			continue
		}
		if b == '#' {
			for {
				if err := t.ensure(1); err != nil {
					return err
				}
				c := t.buf[t.start]
				t.start++
				if c == '\n' || c == '\r' {
					break
				}
			}
			continue
		}
		return nil
	}
}

// getToken skips leading whitespace/comments and returns the maximal run
// of non-whitespace bytes that follows. The second return is false at
// EOF with no token started.
func (t *tokenizer) getToken() ([]byte, bool) {
	if err := t.skipWhitespaceAndComments(); err != nil {
		return nil, false
	}

	var tok []byte
	for {
		if err := t.ensure(1); err != nil {
			break
		}
		b := t.buf[t.start]
		if isSpace(b) {
			break
		}
		tok = append(tok, b)
		t.start++
	}
	return tok, len(tok) > 0
}

// consumeOneWhitespace consumes exactly one whitespace byte, as required
// immediately before a binary pixel body.
func (t *tokenizer) consumeOneWhitespace() error {
	if err := t.ensure(1); err != nil {
		return err
	}
	if !isSpace(t.buf[t.start]) {
		return io.ErrUnexpectedEOF
	}
	t.start++
	return nil
}

// read drains the buffer first, then reads the remainder directly from
// the underlying stream, so binary bodies following a text header are
// read with no extra copy once the ring buffer has been exhausted.
func (t *tokenizer) read(dst []byte) error {
	n := copy(dst, t.buf[t.start:t.end])
	t.start += n
	if n == len(dst) {
		return nil
	}
	_, err := io.ReadFull(t.r, dst[n:])
	return err
}
