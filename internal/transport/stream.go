package transport

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"sensoragent/internal/logger"
	"sensoragent/internal/network"
)

// Stream is a Connection over a reliable, ordered, connection-oriented byte
// link (TCP). A partial-write loop in SendAll guarantees all-or-error
// delivery of each payload.
type Stream struct {
	host string
	port int
	dial network.DialFunc
	conn net.Conn
	log  zerolog.Logger
}

// NewStream creates a stream connection for the given endpoint without
// performing any I/O. A non-nil dial func routes the connection through a
// proxy, in which case address resolution is delegated to the proxy.
func NewStream(host string, port int, dial network.DialFunc, log zerolog.Logger) *Stream {
	return &Stream{
		host: host,
		port: port,
		dial: dial,
		log:  logger.WithComponent(log, "stream-transport"),
	}
}

func (s *Stream) endpoint() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Establish resolves the endpoint and connects to the first reachable
// candidate address. No-op when already established.
func (s *Stream) Establish(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}

	var conn net.Conn
	var err error
	if s.dial != nil {
		conn, err = s.dial("tcp", s.endpoint())
		if err != nil {
			err = &Error{Op: "connect", Endpoint: s.endpoint(), Err: err}
		}
	} else {
		conn, err = dialFirst(ctx, "tcp", s.host, s.port)
	}
	if err != nil {
		return err
	}

	s.conn = conn
	s.log.Debug().
		Str("endpoint", s.endpoint()).
		Str("local_addr", conn.LocalAddr().String()).
		Msg("Stream connection established")
	return nil
}

// SendAll writes p in full, looping over partial writes. A zero-byte write
// with no error means the peer closed the link; it is surfaced as an error
// rather than spinning. Transient signal interruptions are retried silently.
func (s *Stream) SendAll(p []byte) (int, error) {
	if s.conn == nil {
		return 0, &Error{Op: "send", Endpoint: s.endpoint(), Err: ErrNotConnected}
	}

	sent := 0
	for sent < len(p) {
		n, err := s.conn.Write(p[sent:])
		if n > 0 {
			sent += n
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return sent, &Error{Op: "send", Endpoint: s.endpoint(), Err: err}
		}
		if n == 0 {
			return sent, &Error{Op: "send", Endpoint: s.endpoint(), Err: ErrPeerClosed}
		}
	}
	return sent, nil
}

// Close shuts down both directions best-effort, then releases the socket.
// Idempotent; shutdown failures are swallowed because the socket is
// released regardless.
func (s *Stream) Close() error {
	if s.conn == nil {
		return nil
	}

	if tc, ok := s.conn.(*net.TCPConn); ok {
		_ = tc.CloseRead()
		_ = tc.CloseWrite()
	}
	_ = s.conn.Close()
	s.conn = nil

	s.log.Debug().Str("endpoint", s.endpoint()).Msg("Stream connection closed")
	return nil
}

// IsEstablished reports whether the connection currently holds a socket.
func (s *Stream) IsEstablished() bool {
	return s.conn != nil
}
