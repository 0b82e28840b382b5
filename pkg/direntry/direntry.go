// Package direntry describes the files and directories on the remote host
// the same way the remote filesystem does, so that entries can be passed
// between the wire protocol and the snapshot store without conversion.
package direntry

import (
	"strings"
	"time"
)

// Entry types, using the remote filesystem's encoding. Positive values are
// directories and negative values are files.
const (
	TypeRoot     int32 = 1
	TypeUserDir  int32 = 2
	TypeSoftLink int32 = 3
	TypeLinkDir  int32 = 4
	TypeFile     int32 = -3
	TypeLinkFile int32 = -4
)

// DirEntry is a single entry in a remote directory.
type DirEntry struct {
	Name string

	// Type is passed through from the remote host without interpretation.
	Type int32

	Size uint32

	// Prot is the remote protection bitmask. See ProtectionString.
	Prot uint32

	DateStamp

	// Comment is the optional file note. A nil Comment means that the entry
	// has no comment, which is not the same as an empty one.
	Comment *string
}

// IsDir returns whether the entry is a directory (or a link to one).
func (e DirEntry) IsDir() bool {
	return e.Type > 0
}

// IsFile returns whether the entry is a file (or a link to one).
func (e DirEntry) IsFile() bool {
	return e.Type < 0
}

// CommentString returns the comment, or an empty string if there isn't one.
func (e DirEntry) CommentString() string {
	if e.Comment == nil {
		return ""
	}
	return *e.Comment
}

// Identical returns whether two entries describe the same version of a file.
// This is the only check used to decide whether a file needs to be backed up
// again, so every field takes part in it.
func Identical(one, two DirEntry) bool {
	return one.Name == two.Name &&
		commentsEqual(one.Comment, two.Comment) &&
		one.Type == two.Type &&
		one.Size == two.Size &&
		one.Prot == two.Prot &&
		one.DateStamp == two.DateStamp
}

func commentsEqual(one, two *string) bool {
	if one == nil || two == nil {
		return one == nil && two == nil
	}
	return *one == *two
}

// List is an ordered collection of entries, in the order the remote host
// enumerated them.
type List []DirEntry

// Append adds `entry` to the end of the list.
func (l *List) Append(entry DirEntry) {
	*l = append(*l, entry)
}

// Names returns the names of the entries in order.
func (l List) Names() (names []string) {
	for _, e := range l {
		names = append(names, e.Name)
	}
	return names
}

// BaseName returns the last element of a remote path. Both `/` and the
// volume separator `:` delimit path elements, so the base name of
// `Work:docs/readme` is `readme` and the base name of `Work:readme` is
// `readme`.
func BaseName(path string) string {
	if i := strings.LastIndexAny(path, "/:"); i > 0 {
		return path[i+1:]
	}
	return path
}

// Join joins a remote directory and a name.
func Join(dir, name string) string {
	if dir == "" || strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, ":") {
		return dir + name
	}
	return dir + "/" + name
}

// String is used for debug logging.
func (e DirEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Name)
	if e.IsDir() {
		sb.WriteString(" (dir)")
	}
	sb.WriteString(" ")
	sb.WriteString(ProtectionString(e.Prot))
	sb.WriteString(" ")
	sb.WriteString(e.Time().Format(time.RFC3339))
	return sb.String()
}
