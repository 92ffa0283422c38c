// Package transport provides the connection abstraction used to deliver
// sensor payloads to a remote collector, with stream (TCP) and datagram
// (UDP) implementations.
package transport

import (
	"context"
	"net"
	"strconv"
)

// Connection is the minimal transport contract: establish the link, send a
// complete payload, close, and query status. Implementations own exactly one
// underlying socket at a time and are not safe for concurrent use; each
// Connection belongs to a single sensor loop for its lifetime.
type Connection interface {
	// Establish resolves the endpoint and opens the underlying link.
	// Calling it while already established is a no-op.
	Establish(ctx context.Context) error

	// SendAll blocks until every byte of p has been handed to the OS or an
	// error occurs. There are no silent partial sends: on error the returned
	// count says how many bytes went out before the failure.
	SendAll(p []byte) (int, error)

	// Close releases the underlying socket. Idempotent, safe to call when
	// never established, and always returns nil.
	Close() error

	// IsEstablished reports whether SendAll can succeed without reconnecting.
	IsEstablished() bool
}

// dialFirst resolves host to its candidate addresses (both families) and
// dials each in turn on the given network. The first success wins; if every
// candidate fails, the last observed error is returned wrapped with the
// endpoint for diagnosability.
func dialFirst(ctx context.Context, netw, host string, port int) (net.Conn, error) {
	endpoint := net.JoinHostPort(host, strconv.Itoa(port))

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, &Error{Op: "resolve", Endpoint: endpoint, Err: err}
	}

	var lastErr error
	var d net.Dialer
	for _, ip := range ips {
		addr := net.JoinHostPort(ip.String(), strconv.Itoa(port))
		conn, err := d.DialContext(ctx, netw, addr)
		if err != nil {
			lastErr = err
			continue
		}
		return conn, nil
	}

	if lastErr == nil {
		lastErr = ErrNoAddresses
	}
	return nil, &Error{Op: "connect", Endpoint: endpoint, Err: lastErr}
}
