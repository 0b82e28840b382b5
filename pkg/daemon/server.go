package daemon

import (
	"io"
	"net"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
)

// Server answers squirt commands using a Platform.
type Server struct {
	platform Platform
}

// New creates a Server backed by `platform`.
func New(platform Platform) *Server {
	return &Server{platform: platform}
}

// Serve accepts connections on `lis` and handles them one at a time, until
// the listener fails.
func (s *Server) Serve(lis net.Listener) error {
	log.WithField("address", lis.Addr()).Info("squirt daemon is ready")
	for {
		conn, err := lis.Accept()
		if err != nil {
			return errors.WithContext(err, "accept")
		}

		log.WithField("remote", conn.RemoteAddr()).Info("Accepted connection")
		if err := s.Handle(conn); err != nil {
			log.WithError(err).WithField("remote", conn.RemoteAddr()).
				Warn("Failed to handle command")
		}
	}
}

// Handle serves the single command carried by `sock`, and closes it.
func (s *Server) Handle(sock io.ReadWriteCloser) error {
	defer sock.Close()

	conn := protocol.NewConn(sock)
	cmd, err := conn.ReadCommand()
	if err != nil {
		return errors.WithContext(err, "read command")
	}

	log.WithField("command", cmd).Debug("Handling command")
	switch cmd {
	case protocol.CommandSuck:
		err = s.handleSuck(conn)
	case protocol.CommandDir:
		err = s.handleDir(conn)
	case protocol.CommandCwd:
		err = s.handleCwd(conn)
	case protocol.CommandCd:
		err = s.handleCd(conn)
	case protocol.CommandExec:
		err = s.handleExec(conn)
	default:
		return errors.Errorf("unsupported command %s", cmd)
	}
	return errors.WithContext(err, strings.ToLower(cmd.String()))
}

func (s *Server) handleSuck(conn *protocol.Conn) error {
	path, err := conn.ReadString()
	if err != nil {
		return errors.WithContext(err, "read path")
	}

	// If the file can't be opened, the connection is closed without a
	// length, and the client fails instead of saving an empty file.
	f, length, err := s.platform.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := conn.WriteU32(length); err != nil {
		return errors.WithContext(err, "send length")
	}

	log.WithFields(log.Fields{
		"path":  path,
		"bytes": length,
	}).Debug("Sending file")

	buf := make([]byte, protocol.BlockSize)
	for sent := uint32(0); sent < length; {
		chunk := buf
		if remaining := length - sent; remaining < uint32(len(chunk)) {
			chunk = chunk[:remaining]
		}

		// A file that shrank while it was being sent can't be padded, so the
		// client sees a short transfer.
		if _, err := io.ReadFull(f, chunk); err != nil {
			return errors.WithContext(err, "read file")
		}

		if err := conn.WriteFull(chunk); err != nil {
			return errors.WithContext(err, "send file")
		}
		sent += uint32(len(chunk))
	}
	return nil
}

func (s *Server) handleDir(conn *protocol.Conn) error {
	path, err := conn.ReadString()
	if err != nil {
		return errors.WithContext(err, "read path")
	}

	if err := s.sendEntries(conn, path); err != nil {
		// The client is still waiting for the end of the listing if the
		// directory couldn't even be opened.
		if _, ok := errors.RootCause(err).(errors.ResourceError); ok {
			if sendErr := conn.WriteEndOfEntries(); sendErr != nil {
				log.WithError(sendErr).Debug("Failed to send end of listing")
			}
		}
		return err
	}
	return conn.WriteEndOfEntries()
}

func (s *Server) sendEntries(conn *protocol.Conn, path string) error {
	entries, err := s.platform.EnumerateDirectory(path)
	if err != nil {
		return errors.WithContext(err, "open directory")
	}
	defer entries.Close()

	var count int
	for {
		batch, ok, err := entries.Next()
		if err != nil {
			return errors.WithContext(err, "enumerate")
		}

		if !ok {
			break
		}

		for _, e := range batch {
			if err := conn.WriteEntry(e); err != nil {
				return errors.WithContext(err, "send entry")
			}
		}
		count += len(batch)
	}

	log.WithFields(log.Fields{
		"path":    path,
		"entries": count,
	}).Debug("Listed directory")
	return nil
}

func (s *Server) handleCwd(conn *protocol.Conn) error {
	dir, err := s.platform.CurrentDirectory()
	if err != nil {
		return err
	}
	return conn.WriteString(dir)
}

func (s *Server) handleCd(conn *protocol.Conn) error {
	path, err := conn.ReadString()
	if err != nil {
		return errors.WithContext(err, "read path")
	}

	status := protocol.CdSuccess
	if !s.platform.ChangeDirectory(path) {
		log.WithField("path", path).Debug("Failed to change directory")
		status = protocol.CdFailure
	}
	return conn.WriteByte(status)
}

func (s *Server) handleExec(conn *protocol.Conn) error {
	command, err := conn.ReadString()
	if err != nil {
		return errors.WithContext(err, "read command")
	}

	logger := log.WithField("command", command)
	out, err := s.platform.RunCommandStreaming(command)
	if err != nil {
		// The client can't be told about the failure. It only sees a
		// command without output.
		logger.WithError(err).Warn("Failed to start command")
	} else {
		relayErr := relayOutput(conn, out)
		if err := out.Close(); err != nil {
			logger.WithError(err).Debug("Command failed")
		}

		if relayErr != nil {
			return relayErr
		}
	}
	return errors.WithContext(conn.WriteByte(protocol.ExecEndMarker), "send end marker")
}

// relayOutput copies the command's output to the client. Each chunk is sent
// in full before the next one is read.
func relayOutput(conn *protocol.Conn, out io.Reader) error {
	out = protocol.Latin1Reader(out)
	buf := make([]byte, protocol.ExecChunkSize)
	for {
		n, err := out.Read(buf)
		if n > 0 {
			if err := conn.WriteFull(buf[:n]); err != nil {
				return errors.WithContext(err, "send output")
			}
		}

		if err == io.EOF {
			return nil
		} else if err != nil {
			log.WithError(err).Warn("Failed to read command output")
			return nil
		}
	}
}
