// Package source provides the data sources that feed the sensor loop: a
// camera-backed source, a simulated source, and a host-metrics source.
package source

import "errors"

// Readings is one acquisition tick's snapshot of named numeric values.
// A fresh map is produced on every tick; no identity persists across ticks.
type Readings map[string]float64

// Source is the acquisition boundary. ReadAll returns the current snapshot
// or a source-specific error; the sensor loop propagates failures without
// retrying internally.
type Source interface {
	ReadAll() (Readings, error)
}

// ErrNotReady indicates the underlying device is not ready to produce data.
var ErrNotReady = errors.New("device not ready")
