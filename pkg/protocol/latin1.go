package protocol

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1Writer returns a writer that converts ISO-8859-1 text written to it
// into UTF-8 before passing it on to `w`. It's used for output that isn't
// framed as strings, such as the output of CommandExec.
func Latin1Writer(w io.Writer) io.Writer {
	return transform.NewWriter(w, charmap.ISO8859_1.NewDecoder())
}

// Latin1Reader is the reverse of Latin1Writer: it reads UTF-8 text from `r`
// and returns it as ISO-8859-1. Characters that have no ISO-8859-1 encoding,
// and invalid UTF-8, are replaced with the SUB control character.
func Latin1Reader(r io.Reader) io.Reader {
	return transform.NewReader(r,
		encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()))
}
