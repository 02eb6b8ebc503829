// Package frame implements the clipshare wire protocol: one clipboard
// payload per connection, sent as a 4-byte big-endian length prefix
// followed by the UTF-8 bytes of the text.
//
// Wire format:
//
//	offset 0..3   : uint32 big-endian = N (payload byte length)
//	offset 4..4+N : UTF-8 bytes      = clipboard text
//
// There is no version field, no checksum, and no message type. A peer
// pushes exactly one frame and disconnects.
//
// Decoding is deliberately lenient about truncation: if the peer closes
// mid-payload, Read returns whatever bytes arrived, decoded with invalid
// UTF-8 sequences replaced. That is part of the protocol contract, not a
// framing error.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	headerSize = 4

	// readChunk bounds the per-read buffer so a hostile length prefix
	// cannot force a multi-gigabyte allocation up front.
	readChunk = 32 * 1024

	writeDeadline = 5 * time.Second
)

// Encode returns the wire bytes for text: length header plus payload.
// The empty string encodes to a legal zero-length frame.
func Encode(text string) []byte {
	buf := make([]byte, headerSize+len(text))
	binary.BigEndian.PutUint32(buf, uint32(len(text)))
	copy(buf[headerSize:], text)
	return buf
}

// Write encodes text and writes the complete frame to w. If w is a
// net.Conn a write deadline is applied for the duration of the write.
func Write(w io.Writer, text string) error {
	if conn, ok := w.(net.Conn); ok {
		_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		defer conn.SetWriteDeadline(time.Time{})
	}
	if _, err := w.Write(Encode(text)); err != nil {
		return fmt.Errorf("frame write: %w", err)
	}
	return nil
}

// Read reads one frame from r.
//
// If the peer closes before a complete 4-byte header arrives, Read
// returns ok == false with a nil error: the connection carried nothing.
//
// Otherwise Read collects up to the declared payload length, stopping
// early if the peer closes. The collected bytes are returned decoded as
// UTF-8 with invalid sequences replaced, even when fewer than the
// declared length arrived. Only transport errors other than a clean
// close are reported as errors.
func Read(r io.Reader) (text string, ok bool, err error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("frame header: %w", err)
	}

	length := binary.BigEndian.Uint32(header[:])
	payload := make([]byte, 0, min(int(length), readChunk))
	chunk := make([]byte, readChunk)
	for uint32(len(payload)) < length {
		want := length - uint32(len(payload))
		if want > readChunk {
			want = readChunk
		}
		n, err := r.Read(chunk[:want])
		payload = append(payload, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break // peer closed early: deliver what arrived
		}
		if err != nil {
			return "", false, fmt.Errorf("frame payload: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return strings.ToValidUTF8(string(payload), string(utf8.RuneError)), true, nil
}
