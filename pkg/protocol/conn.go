package protocol

import (
	"encoding/binary"
	"io"

	"golang.org/x/text/encoding/charmap"

	"github.com/sidkik/squirt/pkg/errors"
)

// Conn frames values on a single duplex stream. It's not safe for concurrent
// use, which is fine since a connection only ever serves one command.
type Conn struct {
	rw io.ReadWriter

	// scratch holds integers while they're being encoded or decoded.
	scratch [4]byte
}

// NewConn wraps `rw`, which is normally a net.Conn.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{rw: rw}
}

// WriteCommand sends the command byte that starts a request.
func (c *Conn) WriteCommand(cmd Command) error {
	return errors.WithContext(c.WriteByte(byte(cmd)), "send command")
}

// ReadCommand reads the command byte that starts a request.
func (c *Conn) ReadCommand() (Command, error) {
	b, err := c.ReadByte()
	if err != nil {
		return 0, errors.WithContext(err, "read command")
	}
	return Command(b), nil
}

// WriteByte sends a single byte.
func (c *Conn) WriteByte(b byte) error {
	c.scratch[0] = b
	return c.WriteFull(c.scratch[:1])
}

// ReadByte reads a single byte.
func (c *Conn) ReadByte() (byte, error) {
	if err := c.ReadFull(c.scratch[:1]); err != nil {
		return 0, err
	}
	return c.scratch[0], nil
}

// WriteU32 sends `v` in network byte order.
func (c *Conn) WriteU32(v uint32) error {
	binary.BigEndian.PutUint32(c.scratch[:], v)
	return c.WriteFull(c.scratch[:])
}

// ReadU32 reads an integer in network byte order.
func (c *Conn) ReadU32() (uint32, error) {
	if err := c.ReadFull(c.scratch[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(c.scratch[:]), nil
}

// WriteString sends the length of `s` followed by `s` converted to
// ISO-8859-1. Characters that have no ISO-8859-1 representation can't be
// sent.
func (c *Conn) WriteString(s string) error {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return errors.WithContext(err, "encode string")
	}

	if err := c.WriteU32(uint32(len(latin1))); err != nil {
		return errors.WithContext(err, "send length")
	}

	if err := c.WriteFull([]byte(latin1)); err != nil {
		return errors.WithContext(err, "send string")
	}
	return nil
}

// ReadString reads a length prefixed ISO-8859-1 string and returns it as
// UTF-8.
func (c *Conn) ReadString() (string, error) {
	length, err := c.ReadU32()
	if err != nil {
		return "", errors.WithContext(err, "read length")
	}
	return c.ReadStringOfLength(length)
}

// ReadStringOfLength reads a string whose length prefix was already consumed.
// It's used where a zero length has a special meaning, such as the end of a
// directory listing.
func (c *Conn) ReadStringOfLength(length uint32) (string, error) {
	if length > MaxStringLength {
		return "", errors.FramingError{Op: "read string", Want: MaxStringLength, Got: int(length)}
	}

	buf := make([]byte, length)
	if err := c.ReadFull(buf); err != nil {
		return "", errors.WithContext(err, "read string")
	}

	utf8, err := charmap.ISO8859_1.NewDecoder().Bytes(buf)
	if err != nil {
		return "", errors.WithContext(err, "decode string")
	}
	return string(utf8), nil
}

// WriteFull sends all of `p`. Anything less is fatal for the connection.
func (c *Conn) WriteFull(p []byte) error {
	n, err := c.rw.Write(p)
	if err != nil {
		return errors.ConnectionError{Op: "send", Err: err}
	}
	if n != len(p) {
		return errors.FramingError{Op: "send", Want: len(p), Got: n}
	}
	return nil
}

// ReadFull fills `p`. If the stream ends first, the bytes that were read are
// discarded and a FramingError is returned.
func (c *Conn) ReadFull(p []byte) error {
	n, err := io.ReadFull(c.rw, p)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return errors.FramingError{Op: "recv", Want: len(p), Got: n}
	case err != nil:
		return errors.ConnectionError{Op: "recv", Err: err}
	}
	return nil
}

// Read reads whatever is available, up to len(p) bytes, without any framing.
// It's used to relay unframed output.
func (c *Conn) Read(p []byte) (int, error) {
	return c.rw.Read(p)
}
