package client

//go:generate mockery -name Client

import (
	"bytes"
	"io"
	"net"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
)

// Client is the interface for talking to the squirt daemon on a remote host.
// Every call opens its own connection, since the daemon serves a single
// command per connection.
type Client interface {
	// Suck downloads `remotePath` into `localPath`, and returns the number of
	// bytes transferred.
	Suck(remotePath, localPath string, progress Progress) (uint32, error)

	// Dir lists the entries of a remote directory, in the order the remote
	// host enumerated them.
	Dir(path string) (direntry.List, error)

	// Cwd returns the daemon's working directory.
	Cwd() (string, error)

	// Cd changes the daemon's working directory. It returns false if the
	// path doesn't exist or isn't a directory.
	Cd(path string) (bool, error)

	// Exec runs `command` on the remote host and copies its output to `out`.
	// A command that fails to start looks the same as one without output.
	Exec(command string, out io.Writer) error
}

type client struct {
	address string
}

// Mocked for unit testing.
var (
	fs    = afero.NewOsFs()
	clock = clockwork.NewRealClock()
	dial  = dialImpl
)

// New returns a Client for the daemon listening at `address`.
func New(address string) Client {
	return &client{address: address}
}

func dialImpl(address string) (net.Conn, error) {
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, errors.ConnectionError{Op: "connect", Err: err}
	}
	return conn, nil
}

func (c *client) Dir(path string) (direntry.List, error) {
	s, err := c.open(protocol.CommandDir)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.conn.WriteString(path); err != nil {
		return nil, errors.WithContext(err, "send path")
	}

	var list direntry.List
	for {
		entry, ok, err := s.conn.ReadEntry()
		if err != nil {
			return nil, errors.WithContext(err, "read entry")
		}

		if !ok {
			return list, nil
		}
		list.Append(entry)
	}
}

func (c *client) Cwd() (string, error) {
	s, err := c.open(protocol.CommandCwd)
	if err != nil {
		return "", err
	}
	defer s.Close()

	dir, err := s.conn.ReadString()
	if err != nil {
		return "", errors.WithContext(err, "read directory")
	}
	return dir, nil
}

func (c *client) Cd(path string) (bool, error) {
	s, err := c.open(protocol.CommandCd)
	if err != nil {
		return false, err
	}
	defer s.Close()

	if err := s.conn.WriteString(path); err != nil {
		return false, errors.WithContext(err, "send path")
	}

	status, err := s.conn.ReadByte()
	if err != nil {
		return false, errors.WithContext(err, "read status")
	}
	return status == protocol.CdSuccess, nil
}

func (c *client) Exec(command string, out io.Writer) error {
	s, err := c.open(protocol.CommandExec)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.conn.WriteString(command); err != nil {
		return errors.WithContext(err, "send command")
	}

	// The output isn't framed. It ends at the first zero byte.
	out = protocol.Latin1Writer(out)
	buf := s.buffer[:protocol.ExecChunkSize]
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			end := bytes.IndexByte(chunk, protocol.ExecEndMarker)
			if end >= 0 {
				chunk = chunk[:end]
			}

			if _, err := out.Write(chunk); err != nil {
				return errors.WithContext(err, "write output")
			}

			if end >= 0 {
				return nil
			}
		}

		if err == io.EOF {
			return errors.FramingError{Op: "read output", Want: 1, Got: 0}
		} else if err != nil {
			return errors.ConnectionError{Op: "recv", Err: err}
		}
	}
}
