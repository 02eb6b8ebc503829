// Package ctrl defines the local control protocol spoken between the
// clipshare CLI tools (status, clear) and a running serve daemon over
// the IPC socket.
//
// Messages are newline-delimited JSON, one message per line:
//
//	<json>\n
//
// This protocol never leaves the machine — peer-to-peer sync uses the
// binary frame protocol in internal/frame.
package ctrl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

const (
	// MaxMessageSize is the largest control message we will read (16 MiB).
	MaxMessageSize = 16 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// Type identifies the kind of control message.
type Type string

const (
	TypeStatus         Type = "STATUS"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeClear          Type = "CLEAR"
	TypeOK             Type = "OK"
	TypeError          Type = "ERROR"
)

// Peer describes one registered inbound peer in a status response.
type Peer struct {
	Addr        string    `json:"addr"`
	Content     string    `json:"content"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`
}

// Message is the top-level control envelope.
type Message struct {
	Type Type `json:"type"`

	// STATUS_RESPONSE
	ListenAddr string `json:"listen_addr,omitempty"`
	PeerAddr   string `json:"peer_addr,omitempty"`
	Backend    string `json:"backend,omitempty"`
	Consume    bool   `json:"consume,omitempty"`
	Uptime     string `json:"uptime,omitempty"`
	Peers      []Peer `json:"peers,omitempty"`

	// ERROR
	Error string `json:"error,omitempty"`
}

// Conn wraps a net.Conn with buffered newline-delimited JSON framing.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
}

// NewConn wraps conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteMsg serialises msg to JSON and writes it followed by a newline.
func (c *Conn) WriteMsg(msg *Message) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_, err = c.conn.Write(append(raw, '\n'))
	_ = c.conn.SetWriteDeadline(time.Time{})
	return err
}

// ReadMsg reads one newline-terminated line and deserialises it.
func (c *Conn) ReadMsg() (*Message, error) {
	line, err := c.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) > MaxMessageSize {
		return nil, fmt.Errorf("control message too large (%d bytes)", len(line))
	}
	var m Message
	if err := json.Unmarshal(line[:len(line)-1], &m); err != nil {
		return nil, fmt.Errorf("control decode: %w", err)
	}
	return &m, nil
}
