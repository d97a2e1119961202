package osc

import (
	"fmt"
	"reflect"
	"time"
)

// TypeTag identifies the wire kind of a single OSC argument.
type TypeTag byte

// Tags reserved by the OSC 1.0/1.1 conventions. '[' and ']' never have
// handlers; the codec interprets them structurally.
const (
	TypeInt32      TypeTag = 'i'
	TypeInt64      TypeTag = 'h'
	TypeFloat32    TypeTag = 'f'
	TypeFloat64    TypeTag = 'd'
	TypeString     TypeTag = 's'
	TypeBlob       TypeTag = 'b'
	TypeTimetag    TypeTag = 't'
	TypeTrue       TypeTag = 'T'
	TypeFalse      TypeTag = 'F'
	TypeImpulse    TypeTag = 'I'
	TypeNil        TypeTag = 'N'
	TypeArrayBegin TypeTag = '['
	TypeArrayEnd   TypeTag = ']'
)

// Impulse is the zero-byte "bang" argument. It carries no payload, only its
// 'I' type tag.
type Impulse struct{}

func (Impulse) String() string { return "Impulse" }

// ArgumentHandler parses and serializes one OSC argument kind. Implement it
// and register the implementation to carry values of a private extension type
// in messages.
//
// Parse must consume exactly the bytes of one wire value, including any
// trailing alignment padding, leaving the reader at the next field. Serialize
// must write the matching bytes; the tag character itself is written by the
// codec.
type ArgumentHandler interface {
	Tag() TypeTag
	Parse(r *Reader) (any, error)
	Serialize(w *Writer, v any) error
}

// Registry maps type tag characters to argument handlers for decoding, and Go
// types to handlers for encoding. Build it once during setup; after that it
// must not be modified, which is what makes it safe to share between
// concurrent encode and decode calls without locking.
//
// A sender and receiver that need to interoperate must agree on their
// registered tags; the codec does not (and cannot) validate that.
type Registry struct {
	byTag  map[TypeTag]ArgumentHandler
	byType map[reflect.Type]ArgumentHandler
}

// NewRegistry returns a Registry with all built-in argument kinds
// pre-registered: 'i', 'h', 'f', 'd', 's', 'b', 't', 'T', 'F', 'I' and 'N'.
func NewRegistry() *Registry {
	reg := &Registry{
		byTag:  make(map[TypeTag]ArgumentHandler),
		byType: make(map[reflect.Type]ArgumentHandler),
	}

	for _, h := range []ArgumentHandler{
		int32Handler{},
		int64Handler{},
		float32Handler{},
		float64Handler{},
		stringHandler{},
		blobHandler{},
		timetagHandler{},
		trueHandler{},
		falseHandler{},
		impulseHandler{},
		nilHandler{},
	} {
		reg.byTag[h.Tag()] = h
	}

	reg.byType[reflect.TypeOf(int32(0))] = int32Handler{}
	reg.byType[reflect.TypeOf(int64(0))] = int64Handler{}
	reg.byType[reflect.TypeOf(float32(0))] = float32Handler{}
	reg.byType[reflect.TypeOf(float64(0))] = float64Handler{}
	reg.byType[reflect.TypeOf("")] = stringHandler{}
	reg.byType[reflect.TypeOf([]byte(nil))] = blobHandler{}
	reg.byType[reflect.TypeOf(Timetag(0))] = timetagHandler{}
	reg.byType[reflect.TypeOf(time.Time{})] = timetagHandler{}
	reg.byType[reflect.TypeOf(Impulse{})] = impulseHandler{}

	return reg
}

// Register adds a handler for a custom argument kind. The sample value only
// supplies the Go type the encoder should map to this handler; pass the zero
// value. Register is the one mutating call on a Registry and must happen
// before the registry is shared with encoders or decoders.
func (reg *Registry) Register(sample any, h ArgumentHandler) error {
	tag := h.Tag()
	switch tag {
	case ',', TypeArrayBegin, TypeArrayEnd:
		return fmt.Errorf("osc: tag '%c' is reserved", tag)
	}
	if _, ok := reg.byTag[tag]; ok {
		return fmt.Errorf("osc: tag '%c' is already registered", tag)
	}

	reg.byTag[tag] = h
	if sample != nil {
		reg.byType[reflect.TypeOf(sample)] = h
	}
	return nil
}

// handlerForTag returns the decode-side handler for a tag character, or nil.
func (reg *Registry) handlerForTag(tag TypeTag) ArgumentHandler {
	return reg.byTag[tag]
}

// handlerForValue returns the encode-side handler for a value's runtime type,
// or nil. nil values and bools never reach this lookup; their tags are
// resolved from the value itself.
func (reg *Registry) handlerForValue(v any) ArgumentHandler {
	return reg.byType[reflect.TypeOf(v)]
}

// defaultRegistry backs MarshalBinary, UnmarshalBinary and ParsePacket. It is
// never mutated.
var defaultRegistry = NewRegistry()

////
// Built-in handlers
////

type int32Handler struct{}

func (int32Handler) Tag() TypeTag { return TypeInt32 }
func (int32Handler) Parse(r *Reader) (any, error) { return r.ReadInt32() }
func (int32Handler) Serialize(w *Writer, v any) error {
	w.WriteInt32(v.(int32))
	return nil
}

type int64Handler struct{}

func (int64Handler) Tag() TypeTag { return TypeInt64 }
func (int64Handler) Parse(r *Reader) (any, error) { return r.ReadInt64() }
func (int64Handler) Serialize(w *Writer, v any) error {
	w.WriteInt64(v.(int64))
	return nil
}

type float32Handler struct{}

func (float32Handler) Tag() TypeTag { return TypeFloat32 }
func (float32Handler) Parse(r *Reader) (any, error) { return r.ReadFloat32() }
func (float32Handler) Serialize(w *Writer, v any) error {
	w.WriteFloat32(v.(float32))
	return nil
}

type float64Handler struct{}

func (float64Handler) Tag() TypeTag { return TypeFloat64 }
func (float64Handler) Parse(r *Reader) (any, error) { return r.ReadFloat64() }
func (float64Handler) Serialize(w *Writer, v any) error {
	w.WriteFloat64(v.(float64))
	return nil
}

type stringHandler struct{}

func (stringHandler) Tag() TypeTag { return TypeString }
func (stringHandler) Parse(r *Reader) (any, error) { return r.ReadString() }
func (stringHandler) Serialize(w *Writer, v any) error {
	return w.WriteString(v.(string))
}

type blobHandler struct{}

func (blobHandler) Tag() TypeTag { return TypeBlob }
func (blobHandler) Parse(r *Reader) (any, error) { return r.ReadBlob() }
func (blobHandler) Serialize(w *Writer, v any) error {
	w.WriteBlob(v.([]byte))
	return nil
}

// timetagHandler carries both Timetag values (written raw) and time.Time
// values (converted to the dual-epoch NTP representation first). Parsing
// always yields the raw Timetag; resolving it back to a calendar time is the
// caller's decision.
type timetagHandler struct{}

func (timetagHandler) Tag() TypeTag { return TypeTimetag }

func (timetagHandler) Parse(r *Reader) (any, error) {
	tt, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}
	return Timetag(tt), nil
}

func (timetagHandler) Serialize(w *Writer, v any) error {
	switch t := v.(type) {
	case Timetag:
		w.WriteUint64(uint64(t))
	case time.Time:
		w.WriteUint64(uint64(NewTimetagFromTime(t)))
	default:
		return fmt.Errorf("%w: %T as time tag", ErrUnsupportedArgument, v)
	}
	return nil
}

type trueHandler struct{}

func (trueHandler) Tag() TypeTag { return TypeTrue }
func (trueHandler) Parse(*Reader) (any, error) { return true, nil }
func (trueHandler) Serialize(*Writer, any) error { return nil }

type falseHandler struct{}

func (falseHandler) Tag() TypeTag { return TypeFalse }
func (falseHandler) Parse(*Reader) (any, error) { return false, nil }
func (falseHandler) Serialize(*Writer, any) error { return nil }

type impulseHandler struct{}

func (impulseHandler) Tag() TypeTag { return TypeImpulse }
func (impulseHandler) Parse(*Reader) (any, error) { return Impulse{}, nil }
func (impulseHandler) Serialize(*Writer, any) error { return nil }

type nilHandler struct{}

func (nilHandler) Tag() TypeTag { return TypeNil }
func (nilHandler) Parse(*Reader) (any, error) { return nil, nil }
func (nilHandler) Serialize(*Writer, any) error { return nil }
