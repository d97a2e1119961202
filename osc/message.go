package osc

import (
	"bytes"
	"fmt"
	"strings"
)

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []any
}

// Verify that Message implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...any) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list. Arguments without
// a built-in encoding are rejected here rather than at encode time; use an
// Encoder with a custom Registry to carry extension types.
func (m *Message) Append(args ...any) error {
	if _, err := typeTagsFor(args, defaultRegistry); err != nil {
		return err
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Clear clears the address and all arguments.
func (m *Message) Clear() {
	m.Address = ""
	m.Arguments = m.Arguments[:0]
}

// CountArguments returns the number of arguments.
func (m *Message) CountArguments() int {
	return len(m.Arguments)
}

// Match returns true if the OSC address pattern of the Message matches the
// given address. The match is case sensitive!
func (m *Message) Match(addr string) bool {
	regexp, err := getRegEx(m.Address)
	if err != nil {
		return false
	}
	return regexp.MatchString(addr)
}

// TypeTags returns the type tag string, one character per argument with
// nested arrays wrapped in '[' and ']'. Like Append, tags resolve against the
// built-in argument types; values of a custom-registered type report
// ErrUnsupportedArgument here even when an Encoder built on that custom
// Registry accepts them.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", fmt.Errorf("TypeTags: message is nil")
	}

	tags, err := typeTagsFor(m.Arguments, defaultRegistry)
	if err != nil {
		return "", err
	}
	return "," + tags, nil
}

// typeTagsFor derives the tag characters for args without serializing them.
// Booleans resolve to 'T'/'F' by value and nested slices recurse between
// brackets; everything else asks the registry.
func typeTagsFor(args []any, reg *Registry) (string, error) {
	var tags strings.Builder
	if err := appendTypeTags(&tags, args, reg); err != nil {
		return "", err
	}
	return tags.String(), nil
}

func appendTypeTags(tags *strings.Builder, args []any, reg *Registry) error {
	for _, arg := range args {
		switch t := arg.(type) {
		case nil:
			tags.WriteByte(byte(TypeNil))
		case bool:
			if t {
				tags.WriteByte(byte(TypeTrue))
			} else {
				tags.WriteByte(byte(TypeFalse))
			}
		case []any:
			tags.WriteByte(byte(TypeArrayBegin))
			if err := appendTypeTags(tags, t, reg); err != nil {
				return err
			}
			tags.WriteByte(byte(TypeArrayEnd))
		default:
			h := reg.handlerForValue(arg)
			if h == nil {
				return fmt.Errorf("%w: %T", ErrUnsupportedArgument, arg)
			}
			tags.WriteByte(byte(h.Tag()))
		}
	}
	return nil
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	var strBuf bytes.Buffer
	strBuf.WriteString(m.Address)
	if len(tags) <= 1 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(&strBuf, " %v", arg)

		case nil:
			strBuf.WriteString(" Nil")

		case Impulse:
			strBuf.WriteString(" Impulse")

		case []byte:
			strBuf.WriteString(" blob")

		case []any:
			fmt.Fprintf(&strBuf, " %v", arg)

		case Timetag:
			fmt.Fprintf(&strBuf, " %d", arg.TimeTag())
		}
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface using the
// built-in argument types and UTF-8 strings. The byte buffer has the
// following format:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.marshal(newWriter(&buf, nil), defaultRegistry); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data)%alignmentBytes != 0 {
		return fmt.Errorf("%w: message length %d is not a multiple of 4", ErrParse, len(data))
	}
	return m.unmarshal(newReader(data, nil), defaultRegistry)
}

func (m *Message) marshal(w *Writer, reg *Registry) error {
	if len(m.Address) == 0 || m.Address[0] != '/' {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, m.Address)
	}

	// The payload is encoded first: the tag characters are only known once
	// every argument has been resolved against the registry.
	payload := newWriter(new(bytes.Buffer), w.charset)
	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	tags, err := appendArguments(tags, m.Arguments, payload, reg)
	if err != nil {
		return err
	}

	if err := w.WriteString(m.Address); err != nil {
		return err
	}
	w.writeRawString(string(tags))
	w.Write(payload.buf.Bytes())

	return nil
}

// appendArguments serializes args into w and appends their tag characters to
// tags. Nested slices recurse, producing '[' ... ']' around their elements.
func appendArguments(tags []byte, args []any, w *Writer, reg *Registry) ([]byte, error) {
	for _, arg := range args {
		switch t := arg.(type) {
		case nil:
			tags = append(tags, byte(TypeNil))

		case bool:
			if t {
				tags = append(tags, byte(TypeTrue))
			} else {
				tags = append(tags, byte(TypeFalse))
			}

		case []any:
			tags = append(tags, byte(TypeArrayBegin))
			var err error
			if tags, err = appendArguments(tags, t, w, reg); err != nil {
				return nil, err
			}
			tags = append(tags, byte(TypeArrayEnd))

		default:
			h := reg.handlerForValue(arg)
			if h == nil {
				return nil, fmt.Errorf("%w: %T", ErrUnsupportedArgument, arg)
			}
			tags = append(tags, byte(h.Tag()))
			if err := h.Serialize(w, arg); err != nil {
				return nil, err
			}
		}
	}
	return tags, nil
}

func (m *Message) unmarshal(r *Reader, reg *Registry) error {
	addr, err := r.ReadString()
	if err != nil {
		return err
	}
	if len(addr) == 0 || addr[0] != '/' {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	m.Address = addr

	// Legacy senders omit the type tag string entirely for messages
	// without arguments. Accept that instead of failing.
	if r.Len() == 0 {
		m.Arguments = nil
		return nil
	}
	if r.peek() != ',' {
		return fmt.Errorf("%w: no ',' after address but %d bytes remain", ErrParse, r.Len())
	}

	tags, err := r.ReadString()
	if err != nil {
		return err
	}

	m.Arguments, err = readArguments(tags[1:], r, reg)
	return err
}

// readArguments walks the tag characters left to right, consuming one wire
// value per character. A '[' collects the values up to the matching ']' into
// a single []any argument; arrays do not nest on the decode side, each
// bracketed character resolves through the ordinary per-character dispatch.
func readArguments(tags string, r *Reader, reg *Registry) ([]any, error) {
	args := make([]any, 0, len(tags))
	for i := 0; i < len(tags); i++ {
		switch c := TypeTag(tags[i]); c {
		case TypeArrayBegin:
			end := strings.IndexByte(tags[i+1:], byte(TypeArrayEnd))
			if end == -1 {
				return nil, fmt.Errorf("%w: unterminated array in type tags %q", ErrParse, tags)
			}
			arr := make([]any, 0, end)
			for _, ec := range []byte(tags[i+1 : i+1+end]) {
				v, err := readArgument(TypeTag(ec), r, reg)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			args = append(args, arr)
			i += end + 1

		case TypeArrayEnd:
			return nil, fmt.Errorf("%w: unmatched ']' in type tags %q", ErrParse, tags)

		default:
			v, err := readArgument(c, r, reg)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
	}
	return args, nil
}

func readArgument(tag TypeTag, r *Reader, reg *Registry) (any, error) {
	h := reg.handlerForTag(tag)
	if h == nil {
		return nil, fmt.Errorf("%w: '%c'", ErrUnknownArgumentType, tag)
	}
	return h.Parse(r)
}
