package osc

import (
	"reflect"
	"testing"
)

var temp = &Message{Address: "/composition/layers/1/clips/1/transport/position", Arguments: []any{0.123456789, "hello world"}}
var msg, _ = temp.MarshalBinary()

var result any

func BenchmarkParsePacket(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()
	var p Packet
	for n := 0; n < b.N; n++ {
		p, _ = ParsePacket(msg)
	}
	result = p
}

func TestParsePacket(t *testing.T) {
	tests := []testCase{}
	tests = append(tests, messageTestCases...)
	tests = append(tests, bundleTestCases...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePacket(tt.raw)
			if err != nil {
				t.Fatalf("ParsePacket() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.obj) {
				t.Errorf("ParsePacket() got = %v, want %v", got, tt.obj)
			}
		})
	}
}

func TestParsePacketMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"too_short", []byte("/a\x00\x00")[:3]},
		{"misaligned", []byte("/a\x00\x00,\x00\x00")},
		{"no_address", []byte("a\x00\x00\x00,\x00\x00\x00")},
		{"missing_separator", []byte("/a\x00\x00i\x00\x00\x00")},
		{"unterminated_address", []byte("/aaa/bbb/ccc")},
		{"bad_bundle_tag", []byte("#bundlx\x00\x00\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00")},
		{"bundle_too_short", []byte("#bundle\x00\x00\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePacket(tt.raw); err == nil {
				t.Errorf("ParsePacket() expected error on %q", tt.raw)
			}
		})
	}
}

// Every encoded packet must be a multiple of 4 bytes long.
func TestEncodedLengthAlignment(t *testing.T) {
	tests := []testCase{}
	tests = append(tests, messageTestCases...)
	tests = append(tests, bundleTestCases...)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.MarshalBinary()
			if err != nil {
				t.Fatalf("MarshalBinary() error = %v", err)
			}
			if len(got)%4 != 0 {
				t.Errorf("MarshalBinary() length = %d, not a multiple of 4", len(got))
			}
		})
	}
}

// Encoding the same packet twice must yield byte-identical output.
func TestEncodeIdempotent(t *testing.T) {
	enc := NewEncoder(nil, nil)
	for _, tt := range append(messageTestCases, bundleTestCases...) {
		t.Run(tt.name, func(t *testing.T) {
			first, err := enc.Encode(tt.obj)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			second, err := enc.Encode(tt.obj)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Errorf("Encode() not idempotent:\nfirst  = %v\nsecond = %v", first, second)
			}
		})
	}
}

func TestEncodeUnsupportedPacket(t *testing.T) {
	if _, err := NewEncoder(nil, nil).Encode(nil); err == nil {
		t.Error("Encode(nil) expected error")
	}
}

func FuzzParsePacket(f *testing.F) {
	for _, tc := range bundleTestCases {
		f.Add(tc.raw)
	}
	for _, tc := range messageTestCases {
		f.Add(tc.raw)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		packet, err := ParsePacket(data)
		if err != nil {
			return
		}

		dataNew, err := packet.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(): err != nil on parsed packet %#v: %v", packet, err)
		}

		packet, err = ParsePacket(dataNew)
		if err != nil {
			t.Fatalf("ParsePacket(): err != nil on marshaled packet %#v: %v", packet, err)
		}

		dataNew2, err := packet.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(): err != nil on double-parsed packet %#v: %v", packet, err)
		}

		if !reflect.DeepEqual(dataNew, dataNew2) {
			t.Fatalf("dataNew != dataNew2: dataNew: %s %v\ndataNew2: %s %v\npacket: %v\n", dataNew, dataNew, dataNew2, dataNew2, packet)
		}
	})
}
