package transport

import (
	"errors"
	"fmt"
)

// Sentinel conditions surfaced by connections. Callers match them with
// errors.Is through the wrapping *Error.
var (
	// ErrNotConnected is returned by SendAll before Establish succeeded.
	ErrNotConnected = errors.New("not connected")

	// ErrPeerClosed is returned when the remote side closed a stream link.
	ErrPeerClosed = errors.New("connection closed by peer")

	// ErrShortWrite is returned when the OS accepted fewer bytes than a
	// full datagram. Datagram sends are atomic, so this is never retried
	// by re-sending a fragment.
	ErrShortWrite = errors.New("short datagram send")

	// ErrNoAddresses is returned when resolution yields no usable candidate.
	ErrNoAddresses = errors.New("no addresses resolved")
)

// Error wraps a connection failure with the operation and endpoint, so a
// failed connect or send can be diagnosed without a debugger.
type Error struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
