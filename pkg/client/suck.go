package client

import (
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/protocol"
)

// Progress is notified after every chunk of a transfer.
type Progress interface {
	Update(transferred, total uint32, elapsed time.Duration)
}

// NoProgress is a Progress that ignores updates.
type NoProgress struct{}

// Update does nothing.
func (NoProgress) Update(uint32, uint32, time.Duration) {}

// Suck downloads a remote file. The daemon first sends the file length, and
// then the contents, which are read in protocol.BlockSize chunks and written
// to `localPath` as they arrive. A failed transfer leaves the partial file in
// place.
func (c *client) Suck(remotePath, localPath string, progress Progress) (uint32, error) {
	if progress == nil {
		progress = NoProgress{}
	}

	s, err := c.open(protocol.CommandSuck)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	if err := s.conn.WriteString(remotePath); err != nil {
		return 0, errors.WithContext(err, "send path")
	}

	fileLength, err := s.conn.ReadU32()
	if err != nil {
		return 0, errors.WithContext(err, "read file length")
	}

	// A zero length isn't an error. The destination is still created so that
	// empty files are backed up like any other.
	s.dest, err = fs.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, errors.ResourceError{Resource: localPath, Err: err}
	}

	logger := log.WithFields(log.Fields{
		"remote": remotePath,
		"local":  localPath,
		"bytes":  fileLength,
	})
	logger.Debug("Receiving file")

	start := clock.Now()
	var total uint32
	for total < fileLength {
		chunk := s.buffer
		if remaining := fileLength - total; remaining < uint32(len(chunk)) {
			chunk = chunk[:remaining]
		}

		if err := s.conn.ReadFull(chunk); err != nil {
			return total, errors.WithContext(err, "read file")
		}

		n, err := s.dest.Write(chunk)
		if err != nil {
			return total, errors.WithContext(err, "write file")
		} else if n != len(chunk) {
			return total, errors.WithContext(io.ErrShortWrite, "write file")
		}

		total += uint32(n)
		progress.Update(total, fileLength, clock.Now().Sub(start))
	}

	logger.WithField("elapsed", clock.Now().Sub(start)).Debug("Received file")
	return total, nil
}
