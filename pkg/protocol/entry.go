package protocol

import (
	"github.com/sidkik/squirt/pkg/direntry"
	"github.com/sidkik/squirt/pkg/errors"
)

// WriteEntry sends one entry of a directory listing.
func (c *Conn) WriteEntry(e direntry.DirEntry) error {
	if e.Name == "" {
		// An empty name would be read as the end of the listing.
		return errors.MissingFieldError{Field: "name"}
	}

	if err := c.WriteString(e.Name); err != nil {
		return errors.WithContext(err, "send name")
	}

	for _, field := range []uint32{
		uint32(e.Type), e.Size, e.Prot, e.Days, e.Mins, e.Ticks,
	} {
		if err := c.WriteU32(field); err != nil {
			return errors.WithContext(err, "send attributes")
		}
	}

	if err := c.WriteString(e.CommentString()); err != nil {
		return errors.WithContext(err, "send comment")
	}
	return nil
}

// WriteEndOfEntries terminates a directory listing.
func (c *Conn) WriteEndOfEntries() error {
	return errors.WithContext(c.WriteU32(0), "send end of listing")
}

// ReadEntry reads one entry of a directory listing. It returns false once
// the end of the listing is reached.
// An empty comment is read as no comment since the two can't be told apart
// on the wire.
func (c *Conn) ReadEntry() (direntry.DirEntry, bool, error) {
	nameLength, err := c.ReadU32()
	if err != nil {
		return direntry.DirEntry{}, false, errors.WithContext(err, "read name length")
	}

	if nameLength == 0 {
		return direntry.DirEntry{}, false, nil
	}

	name, err := c.ReadStringOfLength(nameLength)
	if err != nil {
		return direntry.DirEntry{}, false, errors.WithContext(err, "read name")
	}

	var fields [6]uint32
	for i := range fields {
		if fields[i], err = c.ReadU32(); err != nil {
			return direntry.DirEntry{}, false, errors.WithContext(err, "read attributes")
		}
	}

	comment, err := c.ReadString()
	if err != nil {
		return direntry.DirEntry{}, false, errors.WithContext(err, "read comment")
	}

	e := direntry.DirEntry{
		Name: name,
		Type: int32(fields[0]),
		Size: fields[1],
		Prot: fields[2],
		DateStamp: direntry.DateStamp{
			Days:  fields[3],
			Mins:  fields[4],
			Ticks: fields[5],
		},
	}
	if comment != "" {
		e.Comment = &comment
	}
	return e, true, nil
}
