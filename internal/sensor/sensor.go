// Package sensor drives the acquisition loop: on a fixed cadence it pulls a
// readings snapshot from a data source, serializes it, and sends it through
// a transport connection.
package sensor

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
	"sensoragent/internal/source"
	"sensoragent/internal/spool"
	"sensoragent/internal/transport"
)

// Sensor owns one data source and one connection. Within one Sensor, reads
// and sends are strictly sequential per tick. A Sensor is driven by exactly
// one worker goroutine; Run may be invoked once per instance.
type Sensor struct {
	cfg    config.SensorConfig
	source source.Source
	conn   transport.Connection
	clk    clock.Clock
	spool  *spool.Spool
	log    zerolog.Logger
}

// Option customizes a Sensor at construction.
type Option func(*Sensor)

// WithClock substitutes the wall clock, so tests can drive the loop with a
// mock clock.
func WithClock(c clock.Clock) Option {
	return func(s *Sensor) { s.clk = c }
}

// WithSpool records every sent payload to a local spool.
func WithSpool(sp *spool.Spool) Option {
	return func(s *Sensor) { s.spool = sp }
}

// New validates the configuration and creates the sensor. Construction
// performs no I/O; an invalid configuration fails here rather than later.
func New(cfg config.SensorConfig, src source.Source, conn transport.Connection, log zerolog.Logger, opts ...Option) (*Sensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sensor{
		cfg:    cfg,
		source: src,
		conn:   conn,
		clk:    clock.New(),
		log:    logger.WithComponent(log, "sensor"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Connect establishes the connection to the collector. On failure the
// sensor state is unchanged and Connect may be called again.
func (s *Sensor) Connect(ctx context.Context) error {
	if err := s.conn.Establish(ctx); err != nil {
		return err
	}
	s.log.Info().Str("sensor_id", s.cfg.SensorID).Msg("Connected to collector")
	return nil
}

// RunOnce performs one acquisition tick: read, serialize, send. Errors from
// the data source or the connection propagate unchanged; no partial payload
// is ever sent. Each call is independently retryable.
func (s *Sensor) RunOnce() error {
	readings, err := s.source.ReadAll()
	if err != nil {
		return fmt.Errorf("data source read failed: %w", err)
	}

	payload, err := buildPayload(s.cfg, readings, s.clk.Now())
	if err != nil {
		return err
	}

	if _, err := s.conn.SendAll(payload); err != nil {
		return err
	}

	if s.spool != nil {
		if err := s.spool.Record(payload); err != nil {
			// Spooling is advisory; the payload already went out.
			s.log.Warn().Err(err).Msg("Failed to spool payload")
		}
	}

	s.log.Debug().
		Int("readings", len(readings)).
		Int("payload_bytes", len(payload)).
		Msg("Tick sent")
	return nil
}

// Run ticks RunOnce on the configured interval until ctx is cancelled,
// returning within one interval of cancellation. Tick failures are logged
// and the loop continues; whether a failure is fatal is the caller's policy,
// applied by cancelling ctx.
func (s *Sensor) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.IntervalSeconds) * time.Second

	s.log.Info().
		Str("sensor_id", s.cfg.SensorID).
		Dur("interval", interval).
		Msg("Sensor loop started")

	ticker := s.clk.Ticker(interval)
	defer ticker.Stop()

	for {
		// Cancellation is checked before every tick, so a stop requested
		// mid-interval never triggers another send.
		select {
		case <-ctx.Done():
			s.log.Info().Str("sensor_id", s.cfg.SensorID).Msg("Sensor loop stopped")
			return
		default:
		}

		if err := s.RunOnce(); err != nil {
			s.log.Error().Err(err).Msg("Acquisition tick failed")
		}

		select {
		case <-ctx.Done():
			s.log.Info().Str("sensor_id", s.cfg.SensorID).Msg("Sensor loop stopped")
			return
		case <-ticker.C:
		}
	}
}

// Close releases the connection. Idempotent; never fails.
func (s *Sensor) Close() error {
	return s.conn.Close()
}
