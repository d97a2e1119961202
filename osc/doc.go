// Package osc provides a codec, client and server for sending and receiving
// OpenSoundControl packets.
//
// This implementation is based on the Open Sound Control 1.0 Specification
// (http://opensoundcontrol.org/spec-1_0).
//
// Open Sound Control (OSC) is an open, transport-independent, message-based
// protocol developed for communication among computers, sound synthesizers,
// and other multimedia devices.
//
// # Features
//
// - Supports OSC messages with the following type tags:
//
//	'i' (int32)
//	'f' (float32)
//	's' (string)
//	'b' ([]byte)
//	't' (Timetag or time.Time)
//	'h' (int64)
//	'd' (float64)
//	'T' (true)
//	'F' (false)
//	'I' (Impulse)
//	'N' (nil)
//	'[' ... ']' ([]any, a nested argument array)
//
// - Supports OSC bundles, including NTP time tags with the 2036 era rollover.
//
// - Supports custom argument types through the Registry: register an
// ArgumentHandler under a free tag character and hand the registry to an
// Encoder and Decoder pair.
//
// - Strings and addresses may use a non-UTF-8 character set via
// golang.org/x/text/encoding.
//
// - Full support for OSC address matching and dispatching.
//
// # Packets
//
// The unit of transmission of OSC is an OSC Packet. Any application that
// sends OSC Packets is an OSC Client; any application that receives OSC
// Packets is an OSC Server.
//
// An OSC packet consists of its contents, a contiguous block of binary data.
// The size of an OSC packet is always 32-bit aligned.
//
// OSC packets come in two flavors:
//
// OSC Messages: an OSC message consists of an OSC address pattern and zero or
// more OSC arguments.
//
// OSC Bundles: an OSC Bundle consists of an OSC Timetag, followed by zero or
// more OSC bundle elements. Each bundle element can be another OSC bundle
// (note this recursive definition: a bundle may contain bundles) or an OSC
// message.
//
// # Usage
//
// OSC client example:
//
//	client, _ := osc.Dial("localhost:8765")
//	msg := osc.NewMessage("/osc/address")
//	msg.Append(int32(111))
//	msg.Append(true)
//	msg.Append("hello")
//	client.Send(msg)
//
// OSC server example:
//
//	d := osc.NewDispatcher()
//	d.AddMethodFunc("/message/address", func(msg *osc.Message) {
//		fmt.Println(msg)
//	})
//
//	server := &osc.Server{
//		Addr:       "127.0.0.1:8765",
//		Dispatcher: d,
//	}
//	server.ListenAndServe()
package osc
