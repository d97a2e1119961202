package osc

import (
	"errors"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MaxPacketSize is the largest datagram the server reads, the maximum UDP
// payload.
const MaxPacketSize = 65507

var readBufPool = sync.Pool{
	New: func() any {
		b := make([]byte, MaxPacketSize)
		return &b
	},
}

// Server represents an OSC server. The server listens on Addr for incoming
// OSC packets and bundles and hands them to its Dispatcher.
type Server struct {
	Addr        string
	Dispatcher  *Dispatcher
	ReadTimeout time.Duration

	// Decoder selects the registry and charset for incoming packets; nil
	// means the built-in types with UTF-8 strings.
	Decoder *Decoder

	// Logger receives dropped-packet and handler-panic reports; nil
	// disables logging.
	Logger *zerolog.Logger
}

// ListenAndServe retrieves incoming OSC packets and dispatches them.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches them. Packets that fail to decode are logged and dropped; in
// particular a message using a private extension type unknown to the registry
// never stops the receive loop.
func (s *Server) Serve(c net.PacketConn) error {
	// A local copy, not a lazy assignment: Serve may run concurrently on the
	// same Server and must not mutate it.
	d := s.Dispatcher
	if d == nil {
		d = NewDispatcher()
	}

	log := s.logger()
	var tempDelay time.Duration
	for {
		p, addr, err := s.readFromConnection(c)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) {
				if !ne.Temporary() {
					return err
				}
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}

			if errors.Is(err, ErrUnknownArgumentType) {
				log.Debug().Err(err).Str("remote", addrString(addr)).Msg("packet ignored")
			} else {
				log.Warn().Err(err).Str("remote", addrString(addr)).Msg("packet dropped")
			}
			continue
		}
		tempDelay = 0
		go s.serve(d, p, addr, log)
	}
}

func (s *Server) serve(d *Dispatcher, p Packet, a net.Addr, log zerolog.Logger) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 64<<10)
			buf = buf[:runtime.Stack(buf, false)]
			log.Error().
				Str("remote", addrString(a)).
				Interface("panic", err).
				Bytes("stack", buf).
				Msg("panic handling packet")
		}
	}()
	d.Dispatch(p, a)
}

// ReceivePacket reads a single OSC packet from the connection and returns it.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	return s.readFromConnection(c)
}

// readFromConnection retrieves OSC packets.
func (s *Server) readFromConnection(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := readBufPool.Get().(*[]byte)
	defer readBufPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	bb := make([]byte, n)
	copy(bb, *b)

	p, err := s.decoder().Decode(bb)
	return p, a, err
}

func (s *Server) decoder() *Decoder {
	if s.Decoder != nil {
		return s.Decoder
	}
	return NewDecoder(nil, nil)
}

func (s *Server) logger() zerolog.Logger {
	if s.Logger != nil {
		return *s.Logger
	}
	return zerolog.Nop()
}
