package osc

// testCase is a packet together with its exact wire bytes. The same tables
// drive the marshal, unmarshal and ParsePacket tests.
type testCase struct {
	name string
	obj  Packet
	raw  []byte
}

var messageTestCases = []testCase{
	{
		"no_args",
		&Message{Address: "/a", Arguments: []any{}},
		[]byte("/a\x00\x00,\x00\x00\x00"),
	},
	{
		"standard_args",
		&Message{Address: "/address", Arguments: []any{int32(1122), "hello"}},
		[]byte("/address\x00\x00\x00\x00,is\x00\x00\x00\x04\x62hello\x00\x00\x00"),
	},
	{
		"numbers",
		&Message{Address: "/n", Arguments: []any{int64(1), float32(3.5), float64(3.5)}},
		[]byte("/n\x00\x00,hfd\x00\x00\x00\x00" +
			"\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x40\x60\x00\x00" +
			"\x40\x0c\x00\x00\x00\x00\x00\x00"),
	},
	{
		"flags",
		&Message{Address: "/flags", Arguments: []any{true, false, nil, Impulse{}}},
		[]byte("/flags\x00\x00,TFNI\x00\x00\x00"),
	},
	{
		"blob",
		&Message{Address: "/b", Arguments: []any{[]byte{1, 2, 3}}},
		[]byte("/b\x00\x00,b\x00\x00\x00\x00\x00\x03\x01\x02\x03\x00"),
	},
	{
		"timetag_arg",
		&Message{Address: "/t", Arguments: []any{Timetag(0x0102030405060708)}},
		[]byte("/t\x00\x00,t\x00\x00\x01\x02\x03\x04\x05\x06\x07\x08"),
	},
	{
		"array",
		&Message{Address: "/array", Arguments: []any{[]any{int32(1), int32(2)}}},
		[]byte("/array\x00\x00,[ii]\x00\x00\x00\x00\x00\x00\x01\x00\x00\x00\x02"),
	},
}

var bundleTestCases = []testCase{
	{
		"immediate_empty",
		&Bundle{Timetag: 1},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01"),
	},
	{
		"two_messages",
		&Bundle{Timetag: 1, Elements: []Packet{
			&Message{Address: "/a", Arguments: []any{int32(5)}},
			&Message{Address: "/b", Arguments: []any{}},
		}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x00\x00\x00\x0c/a\x00\x00,i\x00\x00\x00\x00\x00\x05" +
			"\x00\x00\x00\x08/b\x00\x00,\x00\x00\x00"),
	},
	{
		"nested_bundle",
		&Bundle{Timetag: 1, Elements: []Packet{
			&Message{Address: "/m", Arguments: []any{}},
			&Bundle{Timetag: 1, Elements: []Packet{
				&Message{Address: "/inner", Arguments: []any{}},
			}},
		}},
		[]byte("#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x00\x00\x00\x08/m\x00\x00,\x00\x00\x00" +
			"\x00\x00\x00\x20" +
			"#bundle\x00\x00\x00\x00\x00\x00\x00\x00\x01" +
			"\x00\x00\x00\x0c/inner\x00\x00,\x00\x00\x00"),
	},
}
