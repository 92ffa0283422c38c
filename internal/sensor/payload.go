package sensor

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"sensoragent/internal/config"
	"sensoragent/internal/source"
)

// Reading is one metric's value and unit as it appears on the wire.
type Reading struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Payload is the wire document produced for one acquisition tick. It is
// serialized as a single line of JSON terminated by a newline.
type Payload struct {
	SensorID    string             `json:"sensor_id"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	TimestampMS int64              `json:"timestamp_ms"`
	Readings    map[string]Reading `json:"readings,omitempty"`
}

// readingPrecision is the number of decimal places kept per value.
const readingPrecision = 3

// buildPayload serializes one readings snapshot. Metadata is omitted when
// empty; values are rounded; units come from configured overrides first,
// then name-based heuristics.
func buildPayload(cfg config.SensorConfig, readings source.Readings, ts time.Time) ([]byte, error) {
	p := Payload{
		SensorID:    cfg.SensorID,
		TimestampMS: ts.UnixMilli(),
	}
	if len(cfg.Metadata) > 0 {
		p.Metadata = cfg.Metadata
	}
	if len(readings) > 0 {
		p.Readings = make(map[string]Reading, len(readings))
		for name, value := range readings {
			p.Readings[name] = Reading{
				Value: roundTo(value, readingPrecision),
				Unit:  resolveUnit(cfg.Units, name),
			}
		}
	}

	data, err := json.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return append(data, '\n'), nil
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// resolveUnit picks the unit for a metric: configured override first, then
// defaults keyed off the metric name (tuned for image-sensor fields).
func resolveUnit(overrides map[string]string, name string) string {
	if unit, ok := overrides[name]; ok {
		return unit
	}
	switch {
	case strings.Contains(name, "width"), strings.Contains(name, "height"):
		return "pixels"
	case strings.Contains(name, "channels"):
		return "count"
	case strings.Contains(name, "bytes"), strings.Contains(name, "size"):
		return "bytes"
	case strings.Contains(name, "brightness"), strings.Contains(name, "luma"):
		return "intensity"
	default:
		return "unknown"
	}
}
