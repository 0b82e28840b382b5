// Package protocol implements the framing used between the squirt client and
// the daemon on the remote host.
//
// A connection carries exactly one command. The client sends the command
// byte followed by the command's arguments, and the daemon answers with the
// command's response. Integers are 4 byte big-endian values, and strings are
// prefixed by their length in bytes, so no in-band terminator is ever needed.
// Strings are ISO-8859-1 on the wire and UTF-8 everywhere else, and the
// conversion happens in this package only.
package protocol

import (
	"fmt"
)

// Command identifies the request carried by a connection. The values are part
// of the wire format and must never be reused.
type Command byte

const (
	// CommandSquirt uploads a file. It's reserved for compatibility and isn't
	// served.
	CommandSquirt Command = iota
	// CommandSuck downloads a file.
	CommandSuck
	// CommandDir lists a directory.
	CommandDir
	// CommandCwd returns the daemon's working directory.
	CommandCwd
	// CommandCd changes the daemon's working directory.
	CommandCd
	// CommandExec runs a command and streams its output.
	CommandExec
)

const (
	// DefaultPort is the TCP port the daemon listens on.
	DefaultPort = 6969

	// BlockSize is the size of the chunks a file is transferred in.
	BlockSize = 4096

	// ExecChunkSize is the size of the chunks command output is relayed in.
	ExecChunkSize = 16

	// MaxStringLength is the longest string that will be accepted from the
	// peer.
	MaxStringLength = 1 << 20

	// CdSuccess and CdFailure are the possible responses to CommandCd.
	CdSuccess byte = 0
	CdFailure byte = 1

	// ExecEndMarker terminates the output of CommandExec.
	ExecEndMarker byte = 0
)

var commandNames = map[Command]string{
	CommandSquirt: "SQUIRT",
	CommandSuck:   "SUCK",
	CommandDir:    "DIR",
	CommandCwd:    "CWD",
	CommandCd:     "CD",
	CommandExec:   "EXEC",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", byte(c))
}
