package transport

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"sensoragent/internal/logger"
)

// Datagram is a Connection over a connectionless per-message link (UDP).
// Establish only fixes the default destination peer; no handshake occurs,
// so success reflects local readiness, not remote reachability.
type Datagram struct {
	host string
	port int
	conn net.Conn
	log  zerolog.Logger
}

// NewDatagram creates a datagram connection for the given endpoint without
// performing any I/O.
func NewDatagram(host string, port int, log zerolog.Logger) *Datagram {
	return &Datagram{
		host: host,
		port: port,
		log:  logger.WithComponent(log, "datagram-transport"),
	}
}

func (d *Datagram) endpoint() string {
	return net.JoinHostPort(d.host, strconv.Itoa(d.port))
}

// Establish resolves the endpoint and binds the socket to the first usable
// candidate as its default peer. No-op when already established.
func (d *Datagram) Establish(ctx context.Context) error {
	if d.conn != nil {
		return nil
	}

	conn, err := dialFirst(ctx, "udp", d.host, d.port)
	if err != nil {
		return err
	}

	d.conn = conn
	d.log.Debug().
		Str("endpoint", d.endpoint()).
		Str("local_addr", conn.LocalAddr().String()).
		Msg("Datagram peer bound")
	return nil
}

// SendAll issues exactly one send. Datagram transmission is atomic at the
// OS boundary, so a shorter-than-requested write is itself an error, not
// something to retry by re-sending a fragment. Transient signal
// interruptions are retried silently.
func (d *Datagram) SendAll(p []byte) (int, error) {
	if d.conn == nil {
		return 0, &Error{Op: "send", Endpoint: d.endpoint(), Err: ErrNotConnected}
	}

	for {
		n, err := d.conn.Write(p)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return 0, &Error{Op: "send", Endpoint: d.endpoint(), Err: err}
		}
		if n != len(p) {
			return n, &Error{Op: "send", Endpoint: d.endpoint(), Err: ErrShortWrite}
		}
		return n, nil
	}
}

// Close releases the socket. Idempotent and best-effort, mirroring Stream.
func (d *Datagram) Close() error {
	if d.conn == nil {
		return nil
	}

	_ = d.conn.Close()
	d.conn = nil

	d.log.Debug().Str("endpoint", d.endpoint()).Msg("Datagram socket closed")
	return nil
}

// IsEstablished reports whether the socket is bound to its peer.
func (d *Datagram) IsEstablished() bool {
	return d.conn != nil
}
