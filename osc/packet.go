package osc

import (
	"bytes"
	"encoding"
	"fmt"

	textencoding "golang.org/x/text/encoding"
)

// Packet is the interface for Message and Bundle, the two units OSC
// exchanges.
type Packet interface {
	encoding.BinaryMarshaler
}

// maxNestingDepth bounds recursion through nested bundles and message arrays
// on adversarial input. The wire format itself has no limit.
const maxNestingDepth = 64

// Encoder serializes packets using a fixed registry and character set. The
// zero configuration (nil registry, nil charset) means the built-in argument
// types with UTF-8 strings.
//
// An Encoder resets its scratch buffer on every call, so it is reusable
// sequentially, but a single instance must not be shared between concurrent
// Encode calls. The registry may be shared freely.
type Encoder struct {
	registry *Registry
	charset  textencoding.Encoding
	buf      bytes.Buffer
}

// NewEncoder returns an Encoder. A nil registry selects the built-in types, a
// nil charset selects UTF-8.
func NewEncoder(registry *Registry, charset textencoding.Encoding) *Encoder {
	if registry == nil {
		registry = defaultRegistry
	}
	return &Encoder{registry: registry, charset: charset}
}

// Encode serializes p into a freshly allocated byte slice whose length is
// always a multiple of 4.
func (e *Encoder) Encode(p Packet) ([]byte, error) {
	e.buf.Reset()
	if err := encodePacket(newWriter(&e.buf, e.charset), p, e.registry); err != nil {
		return nil, err
	}

	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())
	return out, nil
}

func encodePacket(w *Writer, p Packet, reg *Registry) error {
	switch t := p.(type) {
	case *Message:
		return t.marshal(w, reg)
	case *Bundle:
		return t.marshal(w, reg)
	default:
		return fmt.Errorf("%w: %T, only Bundle and Message are supported", ErrUnsupportedPacket, p)
	}
}

// Decoder parses packets using a fixed registry and character set. It holds
// no state between calls; distinct calls may run concurrently on distinct
// Decoder instances sharing one registry.
type Decoder struct {
	registry *Registry
	charset  textencoding.Encoding
}

// NewDecoder returns a Decoder. A nil registry selects the built-in types, a
// nil charset selects UTF-8.
func NewDecoder(registry *Registry, charset textencoding.Encoding) *Decoder {
	if registry == nil {
		registry = defaultRegistry
	}
	return &Decoder{registry: registry, charset: charset}
}

// Decode parses data into exactly one Packet. A message using a tag character
// absent from the registry returns an error matching ErrUnknownArgumentType;
// receivers are expected to drop such packets and keep going rather than
// abort.
func (d *Decoder) Decode(data []byte) (Packet, error) {
	return decodePacket(data, d.registry, d.charset, 0)
}

// ParsePacket parses data using the built-in argument types and UTF-8
// strings.
func ParsePacket(data []byte) (Packet, error) {
	return decodePacket(data, defaultRegistry, nil, 0)
}

func decodePacket(data []byte, reg *Registry, charset textencoding.Encoding, depth int) (Packet, error) {
	if len(data) < bit32Size {
		return nil, fmt.Errorf("%w: packet of %d bytes is too short", ErrParse, len(data))
	}
	if len(data)%alignmentBytes != 0 {
		return nil, fmt.Errorf("%w: packet length %d is not a multiple of 4", ErrParse, len(data))
	}
	if depth > maxNestingDepth {
		return nil, fmt.Errorf("%w: bundles nested deeper than %d", ErrParse, maxNestingDepth)
	}

	// The first byte of the packet's contents unambiguously distinguishes
	// between the two variants.
	if data[0] == bundleTagString[0] {
		b := &Bundle{}
		if err := b.unmarshal(newReader(data, charset), reg, depth); err != nil {
			return nil, err
		}
		return b, nil
	}

	m := &Message{}
	if err := m.unmarshal(newReader(data, charset), reg); err != nil {
		return nil, err
	}
	return m, nil
}
