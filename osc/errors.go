package osc

import "errors"

// Sentinel errors returned (wrapped) by the codec. Use errors.Is to classify.
var (
	// ErrParse indicates structurally malformed packet data: a missing
	// bundle literal, a zero or misaligned bundle element length, an
	// unterminated string, or a missing ',' separator while bytes remain.
	ErrParse = errors.New("osc: malformed packet")

	// ErrUnknownArgumentType indicates a type tag character with no
	// registered handler. It is kept distinct from ErrParse so receivers
	// can discard such packets and keep their receive loop running, as
	// the OSC spec recommends for unrecognized private extension types.
	ErrUnknownArgumentType = errors.New("osc: unknown argument type")

	// ErrUnsupportedArgument indicates an argument value whose Go type has
	// no encode-side registry entry.
	ErrUnsupportedArgument = errors.New("osc: unsupported argument")

	// ErrUnsupportedPacket indicates a Packet that is neither *Message nor
	// *Bundle.
	ErrUnsupportedPacket = errors.New("osc: unsupported packet type")

	// ErrInvalidAddress indicates an address pattern that does not start
	// with '/'.
	ErrInvalidAddress = errors.New("osc: invalid address pattern")
)
