// Package backup copies the files of a remote directory that changed since
// the last backup. A file is considered unchanged if its directory entry is
// identical to the snapshot saved after it was last transferred, so running a
// backup twice against an unchanged directory transfers nothing.
package backup

import (
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/squirt/pkg/client"
	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
	"github.com/sidkik/squirt/pkg/snapshot"
)

// SnapshotStore persists the directory entry of every backed up file.
type SnapshotStore interface {
	Read(remotePath string) (direntry.DirEntry, bool, error)
	Save(entry direntry.DirEntry, remotePath, localPath string) error
}

// Engine runs backups of remote directories.
type Engine struct {
	Client client.Client
	Store  SnapshotStore

	// LocalDir is where the files are downloaded to. It defaults to the
	// working directory.
	LocalDir string

	// NewProgress returns the progress reporter for the transfer of `name`.
	// If it's nil, progress isn't reported.
	NewProgress func(name string) client.Progress
}

// Result summarizes a backup.
type Result struct {
	Transferred []string
	Unchanged   []string
	Bytes       uint64
}

// Run backs up the files directly inside `remoteDir`. It stops at the first
// failure. Files transferred before the failure keep their snapshots, so
// they're not transferred again by the next run.
func (e Engine) Run(remoteDir string) (Result, error) {
	var result Result

	list, err := e.Client.Dir(remoteDir)
	if err != nil {
		return result, errors.WithContext(err, "list remote directory")
	}

	toTransfer, unchanged, err := Diff(remoteDir, list, e.Store)
	if err != nil {
		return result, errors.WithContext(err, "diff")
	}
	result.Unchanged = unchanged.Names()

	for _, entry := range toTransfer {
		remotePath := direntry.Join(remoteDir, entry.Name)
		localPath := filepath.Join(e.LocalDir, entry.Name)

		var progress client.Progress = client.NoProgress{}
		if e.NewProgress != nil {
			progress = e.NewProgress(entry.Name)
		}

		n, err := e.Client.Suck(remotePath, localPath, progress)
		if err != nil {
			return result, errors.WithContext(err, "transfer "+remotePath)
		}

		// The snapshot is saved only after the transfer succeeded, so an
		// interrupted backup retries the file.
		if err := e.Store.Save(entry, remotePath, localPath); err != nil {
			return result, errors.WithContext(err, "save snapshot of "+remotePath)
		}

		log.WithFields(log.Fields{
			"remote": remotePath,
			"local":  localPath,
			"bytes":  n,
		}).Info("Backed up file")
		result.Transferred = append(result.Transferred, entry.Name)
		result.Bytes += uint64(n)
	}
	return result, nil
}

// Diff splits the files of a directory listing into those that need to be
// transferred, and those whose snapshot is identical to their current entry.
// Both keep the order of `list`. Directories are ignored.
func Diff(remoteDir string, list direntry.List, store SnapshotStore) (
	toTransfer, unchanged direntry.List, err error) {

	for _, entry := range list {
		if entry.IsDir() {
			continue
		}

		remotePath := direntry.Join(remoteDir, entry.Name)
		saved, ok, err := store.Read(remotePath)
		if _, isParseErr := errors.RootCause(err).(snapshot.ParseError); isParseErr {
			log.WithError(err).WithField("remote", remotePath).
				Warn("Ignoring corrupt snapshot")
			ok = false
		} else if err != nil {
			return nil, nil, errors.WithContext(err, "read snapshot")
		}

		if ok && direntry.Identical(entry, saved) {
			unchanged.Append(entry)
		} else {
			toTransfer.Append(entry)
		}
	}
	return toTransfer, unchanged, nil
}
