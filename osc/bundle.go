package osc

import (
	"bytes"
	"errors"
	"fmt"
	"time"
)

const bundleTagString = "#bundle"

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0 for more information.
//
// Element order is preserved through the codec; it is the intended delivery
// order.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns a Bundle with the "immediately" time tag.
func NewBundle(elements ...Packet) *Bundle {
	return &Bundle{Timetag: TimetagImmediate, Elements: elements}
}

// NewBundleWithTime returns a Bundle scheduled for the given time.
func NewBundleWithTime(time time.Time, elements ...Packet) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(time), Elements: elements}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch pck.(type) {
	case *Bundle, *Message:
		b.Elements = append(b.Elements, pck)
	default:
		return fmt.Errorf("%w: %T, only Bundle and Message are supported", ErrUnsupportedPacket, pck)
	}

	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface using the
// built-in argument types and UTF-8 strings. The byte buffer has the
// following format:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.marshal(newWriter(&buf, nil), defaultRegistry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	if len(data)%alignmentBytes != 0 {
		return fmt.Errorf("%w: bundle length %d is not a multiple of 4", ErrParse, len(data))
	}
	return b.unmarshal(newReader(data, nil), defaultRegistry, 0)
}

func (b *Bundle) marshal(w *Writer, reg *Registry) error {
	w.writeRawString(bundleTagString)

	tt := b.Timetag
	if tt == 0 {
		tt = TimetagImmediate
	}
	w.WriteUint64(uint64(tt))

	// The wire format puts each element's byte length before its content,
	// so every element is fully encoded into a scratch buffer first to
	// learn that length.
	for _, elem := range b.Elements {
		var scratch bytes.Buffer
		if err := encodePacket(newWriter(&scratch, w.charset), elem, reg); err != nil {
			return err
		}
		w.WriteInt32(int32(scratch.Len()))
		w.Write(scratch.Bytes())
	}

	return nil
}

func (b *Bundle) unmarshal(r *Reader, reg *Registry, depth int) error {
	startTag, err := r.ReadString()
	if err != nil {
		return err
	}
	if startTag != bundleTagString {
		return fmt.Errorf("%w: invalid bundle start tag %q", ErrParse, startTag)
	}

	tt, err := r.ReadUint64()
	if err != nil {
		return err
	}
	b.Timetag = Timetag(tt)

	// Read length-prefixed elements until the buffer is exhausted.
	for r.Len() > 0 {
		length, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if length <= 0 {
			return fmt.Errorf("%w: bundle element length %d", ErrParse, length)
		}
		if length%alignmentBytes != 0 {
			return fmt.Errorf("%w: bundle element length %d is not a multiple of 4", ErrParse, length)
		}

		data, err := r.Next(int(length))
		if err != nil {
			return err
		}

		p, err := decodePacket(data, reg, r.charset, depth+1)
		if err != nil {
			// Elements are parsed from independent length-delimited
			// sub-buffers, so one element using a private extension
			// type is dropped without affecting its siblings.
			if errors.Is(err, ErrUnknownArgumentType) {
				continue
			}
			return err
		}
		b.Elements = append(b.Elements, p)
	}

	return nil
}
