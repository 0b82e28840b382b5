package errors

import (
	"fmt"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// ConnectionError is returned when the socket couldn't be created, connected,
// written or read. The connection is unusable afterwards.
type ConnectionError struct {
	Op  string
	Err error
}

func (err ConnectionError) Error() string {
	return fmt.Sprintf("connection %s failed: %s", err.Op, err.Err)
}

// FramingError is returned when the peer declared more bytes than it
// delivered, or when a frame couldn't be sent in full.
type FramingError struct {
	Op   string
	Want int
	Got  int
}

func (err FramingError) Error() string {
	return fmt.Sprintf("framing error during %s: expected %d bytes, got %d",
		err.Op, err.Want, err.Got)
}

// ResourceError is returned when a native object (pipe, file, directory
// handle) couldn't be created or opened.
type ResourceError struct {
	Resource string
	Err      error
}

func (err ResourceError) Error() string {
	return fmt.Sprintf("failed to acquire %s: %s", err.Resource, err.Err)
}

// AttributeError is returned when the attributes of a local file couldn't be
// read or changed. It usually means the file isn't where it was expected.
type AttributeError struct {
	Path string
	Err  error
}

func (err AttributeError) Error() string {
	return fmt.Sprintf("failed to access attributes of %q: %s", err.Path, err.Err)
}
