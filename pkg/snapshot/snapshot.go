// Package snapshot persists the metadata of backed up files, so that later
// backups can tell whether a remote file changed without downloading it.
//
// Each snapshot is a small text file named after the remote file's base
// name, with one `key:value` line per field:
//
//	name:readme
//	type:-3
//	size:1024
//	prot:16
//	days:15000
//	mins:720
//	ticks:1234
//	comment:optional note
//
// Snapshots of files that were removed remotely are never cleaned up.
package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
)

const (
	// DefaultDir is where snapshots are kept, relative to the working
	// directory of the backup.
	DefaultDir = ".squirt"

	// MaxNameLength and MaxCommentLength bound the text fields read back from
	// a snapshot, in bytes of UTF-8. Longer values are truncated. Both hold
	// any remote name or comment, even when every character is non-ASCII.
	MaxNameLength    = 512
	MaxCommentLength = 512
)

// The snapshot keys, in the order they're written.
const (
	keyName    = "name"
	keyType    = "type"
	keySize    = "size"
	keyProt    = "prot"
	keyDays    = "days"
	keyMins    = "mins"
	keyTicks   = "ticks"
	keyComment = "comment"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// ParseError is returned when a snapshot exists but one of its fields is
// missing or malformed.
type ParseError struct {
	Path  string
	Field string
}

func (err ParseError) Error() string {
	return fmt.Sprintf("snapshot %q has a missing or malformed %q field", err.Path, err.Field)
}

// Store reads and writes snapshots in a directory.
type Store struct {
	Dir string
}

// NewStore returns a Store that keeps its snapshots in `dir`.
func NewStore(dir string) Store {
	return Store{Dir: dir}
}

// Path returns the path to the snapshot of `remotePath`.
func (s Store) Path(remotePath string) (string, error) {
	name := direntry.BaseName(remotePath)
	if name == "" {
		return "", errors.Errorf("remote path %q has no base name", remotePath)
	}
	return filepath.Join(s.Dir, name), nil
}

// Save records `entry` as the latest backed up version of `remotePath`, and
// sets the modification time of the local copy at `localPath` to the remote
// modification time.
func (s Store) Save(entry direntry.DirEntry, remotePath, localPath string) error {
	path, err := s.Path(remotePath)
	if err != nil {
		return err
	}

	// Don't record a snapshot for a file that isn't there.
	if _, err := fs.Stat(localPath); err != nil {
		return errors.AttributeError{Path: localPath, Err: err}
	}

	if err := fs.MkdirAll(s.Dir, 0755); err != nil {
		return errors.WithContext(err, "create snapshot directory")
	}

	if err := afero.WriteFile(fs, path, marshal(entry), 0644); err != nil {
		return errors.WithContext(err, "write snapshot")
	}

	if err := fs.Chtimes(localPath, time.Now(), entry.Time()); err != nil {
		return errors.AttributeError{Path: localPath, Err: err}
	}

	log.WithField("path", path).Debug("Saved snapshot")
	return nil
}

// Read returns the snapshot of `remotePath`. The boolean is false if no
// snapshot has been saved yet.
func (s Store) Read(remotePath string) (direntry.DirEntry, bool, error) {
	path, err := s.Path(remotePath)
	if err != nil {
		return direntry.DirEntry{}, false, err
	}

	contents, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return direntry.DirEntry{}, false, nil
		}
		return direntry.DirEntry{}, false, errors.WithContext(err, "read snapshot")
	}

	entry, err := unmarshal(path, contents)
	if err != nil {
		return direntry.DirEntry{}, false, err
	}
	return entry, true, nil
}

// Identical returns whether two snapshots describe the same file version.
func Identical(one, two direntry.DirEntry) bool {
	return direntry.Identical(one, two)
}

func marshal(e direntry.DirEntry) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s:%s\n", keyName, e.Name)
	fmt.Fprintf(&buf, "%s:%d\n", keyType, e.Type)
	fmt.Fprintf(&buf, "%s:%d\n", keySize, e.Size)
	fmt.Fprintf(&buf, "%s:%d\n", keyProt, e.Prot)
	fmt.Fprintf(&buf, "%s:%d\n", keyDays, e.Days)
	fmt.Fprintf(&buf, "%s:%d\n", keyMins, e.Mins)
	fmt.Fprintf(&buf, "%s:%d\n", keyTicks, e.Ticks)
	fmt.Fprintf(&buf, "%s:%s", keyComment, e.CommentString())
	return buf.Bytes()
}

// parser reads the fields of a snapshot in order. The first error is kept and
// every later read becomes a no-op, so callers check it once at the end.
type parser struct {
	path string
	rest string
	err  error
}

// next consumes the line for `key` and returns its value.
func (p *parser) next(key string) string {
	if p.err != nil {
		return ""
	}

	line := p.rest
	if i := strings.IndexByte(p.rest, '\n'); i >= 0 {
		line, p.rest = p.rest[:i], p.rest[i+1:]
	} else {
		p.rest = ""
	}
	return p.value(key, line)
}

// remainder consumes everything left as the value of `key`. The comment is
// the last field and isn't newline terminated, so it's kept verbatim.
func (p *parser) remainder(key string) string {
	if p.err != nil {
		return ""
	}

	line := p.rest
	p.rest = ""
	return p.value(key, line)
}

func (p *parser) value(key, line string) string {
	i := strings.IndexByte(line, ':')
	if i < 0 || line[:i] != key {
		p.err = ParseError{Path: p.path, Field: key}
		return ""
	}
	return line[i+1:]
}

func (p *parser) signed(key string) int32 {
	str := p.next(key)
	if p.err != nil {
		return 0
	}

	v, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		p.err = ParseError{Path: p.path, Field: key}
	}
	return int32(v)
}

func (p *parser) unsigned(key string) uint32 {
	str := p.next(key)
	if p.err != nil {
		return 0
	}

	v, err := strconv.ParseUint(str, 10, 32)
	if err != nil {
		p.err = ParseError{Path: p.path, Field: key}
	}
	return uint32(v)
}

func unmarshal(path string, contents []byte) (direntry.DirEntry, error) {
	p := parser{path: path, rest: string(contents)}

	var e direntry.DirEntry
	e.Name = truncate(p.next(keyName), MaxNameLength)
	e.Type = p.signed(keyType)
	e.Size = p.unsigned(keySize)
	e.Prot = p.unsigned(keyProt)
	e.Days = p.unsigned(keyDays)
	e.Mins = p.unsigned(keyMins)
	e.Ticks = p.unsigned(keyTicks)
	comment := truncate(p.remainder(keyComment), MaxCommentLength)
	if p.err != nil {
		return direntry.DirEntry{}, p.err
	}

	if e.Name == "" {
		return direntry.DirEntry{}, ParseError{Path: path, Field: keyName}
	}

	if comment != "" {
		e.Comment = &comment
	}
	return e, nil
}

// truncate shortens `s` to at most `max` bytes without splitting a character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
