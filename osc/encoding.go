package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding"
)

const (
	bit32Size = 4
	bit64Size = 8

	// alignmentBytes is the boundary every variable-length OSC field is
	// padded to.
	alignmentBytes = 4
)

// padBytesNeeded determines how many bytes are needed to fill up to the next
// 4 byte length.
func padBytesNeeded(elementLen int) int {
	return (alignmentBytes - (elementLen % alignmentBytes)) % alignmentBytes
}

////
// Writer
////

// Writer is the byte sink handed to argument handlers during encoding. It
// tracks the total number of bytes written so far, which is all the state the
// 4-byte alignment rules need.
type Writer struct {
	buf     *bytes.Buffer
	charset encoding.Encoding
	enc     *encoding.Encoder
}

func newWriter(buf *bytes.Buffer, charset encoding.Encoding) *Writer {
	w := &Writer{buf: buf, charset: charset}
	if charset != nil {
		w.enc = charset.NewEncoder()
	}
	return w
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Write appends raw bytes without padding. Custom handlers that use it for
// variable-length data must call Align afterwards.
func (w *Writer) Write(b []byte) {
	w.buf.Write(b)
}

// Align pads the sink with zero bytes until its length is a multiple of 4.
func (w *Writer) Align() {
	for i := padBytesNeeded(w.buf.Len()); i > 0; i-- {
		w.buf.WriteByte(0)
	}
}

// WriteInt32 writes v as 4 bytes in big-endian order.
func (w *Writer) WriteInt32(v int32) {
	var b [bit32Size]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// WriteInt64 writes v as 8 bytes in big-endian order.
func (w *Writer) WriteInt64(v int64) {
	var b [bit64Size]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// WriteUint64 writes v as 8 bytes in big-endian order.
func (w *Writer) WriteUint64(v uint64) {
	var b [bit64Size]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteFloat32 writes the IEEE 754 bits of v as 4 bytes in big-endian order.
func (w *Writer) WriteFloat32(v float32) {
	var b [bit32Size]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

// WriteFloat64 writes the IEEE 754 bits of v as 8 bytes in big-endian order.
func (w *Writer) WriteFloat64(v float64) {
	var b [bit64Size]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

// WriteString writes s in the writer's character set, followed by a NUL
// terminator and padding to the next 4-byte boundary.
func (w *Writer) WriteString(s string) error {
	if w.enc != nil {
		es, err := w.enc.String(s)
		if err != nil {
			return fmt.Errorf("encode string %q: %w", s, err)
		}
		s = es
	}
	w.writeRawString(s)
	return nil
}

// writeRawString writes s byte for byte, NUL-terminated and padded. Used for
// the type tag string and the bundle literal, which are plain ASCII and never
// go through the charset.
func (w *Writer) writeRawString(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
	w.Align()
}

// WriteBlob writes a 4-byte big-endian length, the raw payload, and padding
// to the next 4-byte boundary.
func (w *Writer) WriteBlob(b []byte) {
	w.WriteInt32(int32(len(b)))
	w.buf.Write(b)
	w.Align()
}

////
// Reader
////

// Reader is the positioned byte source handed to argument handlers during
// decoding. Handlers consume exactly the bytes of their wire representation,
// including any trailing alignment padding.
type Reader struct {
	data    []byte
	pos     int
	charset encoding.Encoding
	dec     *encoding.Decoder
}

func newReader(data []byte, charset encoding.Encoding) *Reader {
	r := &Reader{data: data, charset: charset}
	if charset != nil {
		r.dec = charset.NewDecoder()
	}
	return r
}

// Len returns the number of unconsumed bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Next consumes and returns the next n bytes. The returned slice aliases the
// input buffer; callers that retain it must copy.
func (r *Reader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrParse, n, r.Len())
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Align skips forward to the next 4-byte boundary, but never past the end of
// the buffer.
func (r *Reader) Align() {
	pad := padBytesNeeded(r.pos)
	if pad > r.Len() {
		pad = r.Len()
	}
	r.pos += pad
}

// peek returns the next byte without consuming it.
func (r *Reader) peek() byte {
	return r.data[r.pos]
}

// ReadInt32 consumes 4 bytes and returns them as a big-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.Next(bit32Size)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ReadInt64 consumes 8 bytes and returns them as a big-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.Next(bit64Size)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// ReadUint64 consumes 8 bytes and returns them as a big-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.Next(bit64Size)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadFloat32 consumes 4 bytes and returns them as an IEEE 754 float32.
func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.Next(bit32Size)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// ReadFloat64 consumes 8 bytes and returns them as an IEEE 754 float64.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.Next(bit64Size)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// ReadString consumes a NUL-terminated string plus its alignment padding and
// returns it decoded in the reader's character set.
func (r *Reader) ReadString() (string, error) {
	end := bytes.IndexByte(r.data[r.pos:], 0)
	if end == -1 {
		return "", fmt.Errorf("%w: unterminated string", ErrParse)
	}
	s := string(r.data[r.pos : r.pos+end])
	r.pos += end + 1
	r.Align()

	if r.dec != nil {
		ds, err := r.dec.String(s)
		if err != nil {
			return "", fmt.Errorf("%w: decode string: %v", ErrParse, err)
		}
		s = ds
	}
	return s, nil
}

// ReadBlob consumes a 4-byte big-endian length, that many payload bytes and
// the alignment padding. The payload is copied, so it stays valid after the
// input buffer is reused.
func (r *Reader) ReadBlob() ([]byte, error) {
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > r.Len() {
		return nil, fmt.Errorf("%w: invalid blob length %d", ErrParse, n)
	}
	b, err := r.Next(int(n))
	if err != nil {
		return nil, err
	}
	r.Align()

	blob := make([]byte, len(b))
	copy(blob, b)
	return blob, nil
}
