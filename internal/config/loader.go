package config

import (
	"encoding/json"
	"fmt"
	"os"

	"sensoragent/internal/logger"
)

// rawTransportConfig matches the on-disk shape: a kind selector plus one
// nested object per kind, so tcp and udp endpoints can coexist in one file.
type rawTransportConfig struct {
	Kind       string       `json:"kind"`
	TCP        *rawEndpoint `json:"tcp,omitempty"`
	UDP        *rawEndpoint `json:"udp,omitempty"`
	SOCKSProxy SOCKSConfig  `json:"socks_proxy,omitempty"`
}

type rawEndpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadSensor reads and validates the sensor configuration file.
func LoadSensor(path string) (*SensorConfig, error) {
	cfg := DefaultSensorConfig()
	if err := readJSONFile(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadTransport reads and validates the transport configuration file.
// The selected kind must have a matching endpoint object.
func LoadTransport(path string) (*TransportConfig, error) {
	var raw rawTransportConfig
	if err := readJSONFile(path, &raw); err != nil {
		return nil, err
	}

	cfg := &TransportConfig{Kind: raw.Kind, SOCKSProxy: raw.SOCKSProxy}

	var ep *rawEndpoint
	switch raw.Kind {
	case "tcp":
		ep = raw.TCP
	case "udp":
		ep = raw.UDP
	case "":
		return nil, &ValidationError{Field: "kind", Reason: "must not be empty"}
	default:
		return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unsupported kind %q", raw.Kind)}
	}
	if ep == nil {
		return nil, &ValidationError{Field: raw.Kind, Reason: fmt.Sprintf("missing %q endpoint object for kind=%q", raw.Kind, raw.Kind)}
	}
	if ep.Host == "" {
		return nil, &ValidationError{Field: raw.Kind + ".host", Reason: "must not be empty"}
	}
	if ep.Port <= 0 || ep.Port > 65535 {
		return nil, &ValidationError{Field: raw.Kind + ".port", Reason: "must be in range 1..65535"}
	}

	cfg.Host = ep.Host
	cfg.Port = ep.Port
	return cfg, nil
}

// LoadSimulation reads the simulation data source configuration file.
func LoadSimulation(path string) (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := readJSONFile(path, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Limits) == 0 {
		return nil, &ValidationError{Field: "limits", Reason: "must define at least one metric"}
	}
	return &cfg, nil
}

// LoadRegistry reads the optional sensor registry configuration file.
func LoadRegistry(path string) (*RegistryConfig, error) {
	var cfg RegistryConfig
	if err := readJSONFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLogging reads the logging configuration file.
func LoadLogging(path string) (*logger.Config, error) {
	cfg := logger.DefaultConfig()
	if err := readJSONFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
