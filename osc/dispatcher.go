package osc

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC
// Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the
// Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher handles the dispatching of received OSC Packets to Methods for
// their given address. Bundles are scheduled according to their time tag.
type Dispatcher struct {
	methods map[string]Method

	// Logger receives handler panic reports; nil disables logging.
	Logger *zerolog.Logger
}

// NewDispatcher returns a Dispatcher with no methods registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{methods: make(map[string]Method)}
}

// AddMethod adds a new OSC Method for the given OSC address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if d.methods == nil {
		d.methods = make(map[string]Method)
	}

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return fmt.Errorf("AddMethod: OSC method may not contain any characters in \"*?,[]{}# \"")
	}

	if _, ok := d.methods[addr]; ok {
		return fmt.Errorf("AddMethod: OSC method %q exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch dispatches OSC Packets. Messages are matched against the
// registered method addresses; bundles run when their time tag expires, in
// element order.
func (d *Dispatcher) Dispatch(packet Packet, a net.Addr) {
	switch p := packet.(type) {
	case *Message:
		d.dispatchMessage(p)

	case *Bundle:
		time.AfterFunc(p.Timetag.ExpiresIn(), func() {
			defer d.recoverer(a)
			for _, elem := range p.Elements {
				d.Dispatch(elem, a)
			}
		})

	default:
		d.logger().Error().Str("type", fmt.Sprintf("%T", packet)).Msg("dispatch: invalid packet")
	}
}

func (d *Dispatcher) dispatchMessage(m *Message) {
	r, err := getRegEx(m.Address)
	if err != nil {
		d.logger().Error().Err(err).Str("address", m.Address).Msg("dispatch: invalid address pattern")
		return
	}

	// The OSC spec divides each address into parts, so a radix tree would
	// do; a linear scan is fine for the method counts seen in practice.
	r.Longest()
	aParts := len(strings.Split(m.Address, "/"))
	for addr, method := range d.methods {
		if aParts == len(strings.Split(addr, "/")) && r.FindString(addr) == addr {
			method.HandleMessage(m)
		}
	}
}

func (d *Dispatcher) recoverer(a net.Addr) {
	if err := recover(); err != nil {
		d.logger().Error().Str("remote", addrString(a)).Interface("panic", err).Msg("panic in OSC method")
	}
}

func (d *Dispatcher) logger() *zerolog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}

// getRegEx compiles and returns a regular expression object for the given
// OSC address pattern.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	r := strings.NewReplacer(
		".", `\.`,
		"(", `\(`,
		")", `\)`,
		"*", "[^/]*",
		"{", "(",
		",", "|",
		"}", ")",
		"?", "[^/]",
		"!", "^",
	)
	pattern = r.Replace(pattern)

	return regexp.Compile(pattern)
}
