package transport

import (
	"errors"
	"testing"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
)

func TestNew_ValidKinds(t *testing.T) {
	tests := []struct {
		name string
		kind string
	}{
		{"tcp lowercase", "tcp"},
		{"tcp uppercase", "TCP"},
		{"tcp mixed case", "Tcp"},
		{"udp lowercase", "udp"},
		{"udp uppercase", "UDP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.TransportConfig{Kind: tt.kind, Host: "localhost", Port: 9000}
			conn, err := New(cfg, nil, logger.Nop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if conn == nil {
				t.Fatal("expected non-nil connection")
			}
			if conn.IsEstablished() {
				t.Error("new connection must not be established")
			}
		})
	}
}

func TestNew_ReturnsMatchingConcreteType(t *testing.T) {
	conn, err := New(config.TransportConfig{Kind: "tcp", Host: "localhost", Port: 9000}, nil, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := conn.(*Stream); !ok {
		t.Errorf("expected *Stream for kind tcp, got %T", conn)
	}

	conn, err = New(config.TransportConfig{Kind: "udp", Host: "localhost", Port: 9000}, nil, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := conn.(*Datagram); !ok {
		t.Errorf("expected *Datagram for kind udp, got %T", conn)
	}
}

func TestNew_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.TransportConfig
	}{
		{"empty kind", config.TransportConfig{Kind: "", Host: "localhost", Port: 9000}},
		{"empty host", config.TransportConfig{Kind: "tcp", Host: "", Port: 9000}},
		{"port zero", config.TransportConfig{Kind: "tcp", Host: "localhost", Port: 0}},
		{"port negative", config.TransportConfig{Kind: "udp", Host: "localhost", Port: -1}},
		{"port too large", config.TransportConfig{Kind: "udp", Host: "localhost", Port: 65536}},
		{"unsupported kind", config.TransportConfig{Kind: "sctp", Host: "localhost", Port: 9000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := New(tt.cfg, nil, logger.Nop())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if conn != nil {
				t.Errorf("expected nil connection on error, got %T", conn)
			}
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected *config.ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestNew_BoundaryPorts(t *testing.T) {
	for _, port := range []int{1, 65535} {
		cfg := config.TransportConfig{Kind: "tcp", Host: "localhost", Port: port}
		if _, err := New(cfg, nil, logger.Nop()); err != nil {
			t.Errorf("port %d: unexpected error: %v", port, err)
		}
	}
}
