package client

import (
	"net"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
)

// session holds everything a single command acquires: the connection, the
// read buffer, and the destination file of a transfer. Callers defer Close
// as soon as the session is opened so that every return path releases them.
type session struct {
	sock   net.Conn
	conn   *protocol.Conn
	buffer []byte
	dest   afero.File
}

// open connects to the daemon and sends the command byte.
func (c *client) open(cmd protocol.Command) (*session, error) {
	sock, err := dial(c.address)
	if err != nil {
		return nil, errors.WithContext(err, "dial")
	}

	s := &session{
		sock:   sock,
		conn:   protocol.NewConn(sock),
		buffer: make([]byte, protocol.BlockSize),
	}
	if err := s.conn.WriteCommand(cmd); err != nil {
		s.Close()
		return nil, err
	}

	log.WithFields(log.Fields{
		"address": c.address,
		"command": cmd,
	}).Debug("Opened session")
	return s, nil
}

// Close releases the destination file and the connection.
func (s *session) Close() error {
	var destErr error
	if s.dest != nil {
		destErr = s.dest.Close()
		s.dest = nil
	}

	sockErr := s.sock.Close()
	if destErr != nil {
		return errors.WithContext(destErr, "close destination")
	}
	return errors.WithContext(sockErr, "close connection")
}
