package osc

import (
	"net"
)

// Client enables you to send OSC Packets to a specified server.
type Client struct {
	conn    *net.UDPConn
	encoder *Encoder
}

// Dial creates a new OSC Client with a connection to the specified server,
// sending the built-in argument types with UTF-8 strings.
func Dial(addr string) (*Client, error) {
	return DialEncoder(addr, nil)
}

// DialEncoder creates a new OSC Client that serializes outgoing packets with
// the given Encoder. A nil encoder selects the defaults.
func DialEncoder(addr string, encoder *Encoder) (*Client, error) {
	a, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	conn, err := net.DialUDP("udp", nil, a)
	if err != nil {
		return nil, err
	}

	if encoder == nil {
		encoder = NewEncoder(nil, nil)
	}
	return &Client{conn: conn, encoder: encoder}, nil
}

// Send sends an OSC Packet to the server.
func (c *Client) Send(packet Packet) error {
	data, err := c.encoder.Encode(packet)
	if err != nil {
		return err
	}

	_, err = c.conn.Write(data)
	return err
}

// Close closes the connection to the server.
func (c *Client) Close() error {
	return c.conn.Close()
}
