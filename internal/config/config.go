// Package config provides configuration management for the sensor agent.
package config

import "fmt"

// ValidationError reports a configuration field that failed validation.
// It is always detected before any I/O is performed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config field %q: %s", e.Field, e.Reason)
}

// SensorConfig describes one sensor: its identity, acquisition cadence,
// per-metric unit overrides, and static metadata attached to every payload.
type SensorConfig struct {
	SensorID        string            `json:"sensor_id"`
	IntervalSeconds int               `json:"interval_seconds"`
	Units           map[string]string `json:"units,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Spool           SpoolConfig       `json:"spool,omitempty"`
}

// Validate checks the invariants the sensor loop depends on.
func (c *SensorConfig) Validate() error {
	if c.SensorID == "" {
		return &ValidationError{Field: "sensor_id", Reason: "must not be empty"}
	}
	if c.IntervalSeconds <= 0 {
		return &ValidationError{Field: "interval_seconds", Reason: "must be > 0"}
	}
	return nil
}

// TransportConfig selects and addresses the transport for payload delivery.
type TransportConfig struct {
	Kind       string      `json:"kind"` // "tcp" or "udp"
	Host       string      `json:"host"`
	Port       int         `json:"port"`
	SOCKSProxy SOCKSConfig `json:"socks_proxy,omitempty"`
}

// SOCKSConfig contains SOCKS5 proxy settings. An empty host disables the proxy.
type SOCKSConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SpoolConfig controls the optional local payload spool.
type SpoolConfig struct {
	Enabled    bool   `json:"enabled"`
	FilePath   string `json:"file_path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	Console    bool   `json:"console"`
}

// RegistryConfig addresses the optional Redis sensor registry.
// An empty address disables the lookup.
type RegistryConfig struct {
	Address  string `json:"address"`
	Password string `json:"password,omitempty"`
	DB       int    `json:"db,omitempty"`
}

// LimitConfig describes how one simulated metric is generated: either a
// fixed value, or a [min,max] range with an optional probability of
// emitting a deliberately out-of-range value.
type LimitConfig struct {
	Fixed          *float64 `json:"fixed,omitempty"`
	Min            *float64 `json:"min,omitempty"`
	Max            *float64 `json:"max,omitempty"`
	BadProbability float64  `json:"bad_probability,omitempty"`
}

// SimulationConfig holds the per-metric generation limits for the
// simulation data source.
type SimulationConfig struct {
	Limits map[string]LimitConfig `json:"limits"`
}

// DefaultSensorConfig returns a sensor configuration with sensible defaults.
// The sensor ID has no default; it must come from the config file.
func DefaultSensorConfig() SensorConfig {
	return SensorConfig{
		IntervalSeconds: 1,
		Spool: SpoolConfig{
			FilePath:   "logs/payloads.jsonl",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}
