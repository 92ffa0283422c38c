package transport

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
	"sensoragent/internal/network"
)

// New creates a Connection based on the configuration. The transport kind is
// matched case-insensitively. Validation happens here, before any I/O: the
// returned Connection is not yet established.
func New(cfg config.TransportConfig, dial network.DialFunc, log zerolog.Logger) (Connection, error) {
	flog := logger.WithComponent(log, "transport-factory")

	if cfg.Kind == "" {
		return nil, &config.ValidationError{Field: "kind", Reason: "must not be empty"}
	}
	if cfg.Host == "" {
		return nil, &config.ValidationError{Field: "host", Reason: "must not be empty"}
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, &config.ValidationError{Field: "port", Reason: "must be in range 1..65535"}
	}

	switch strings.ToLower(cfg.Kind) {
	case "tcp":
		flog.Info().
			Str("kind", "tcp").
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Bool("proxied", dial != nil).
			Msg("Creating stream transport")
		return NewStream(cfg.Host, cfg.Port, dial, log), nil
	case "udp":
		if dial != nil {
			flog.Warn().Msg("SOCKS proxy is not supported for udp, ignoring")
		}
		flog.Info().
			Str("kind", "udp").
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Msg("Creating datagram transport")
		return NewDatagram(cfg.Host, cfg.Port, log), nil
	default:
		return nil, &config.ValidationError{
			Field:  "kind",
			Reason: fmt.Sprintf("unsupported kind %q (supported: tcp, udp)", cfg.Kind),
		}
	}
}
