package source

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
)

// SimulationSource generates readings from per-metric limits: a fixed value,
// or a uniform draw from [min,max] with an optional probability of emitting
// a deliberately out-of-range value to exercise downstream validation.
type SimulationSource struct {
	limits map[string]config.LimitConfig
	rng    *rand.Rand
	log    zerolog.Logger
}

// NewSimulationSource validates the limit configuration and creates the
// source. A metric with neither a fixed value nor a complete range fails
// construction.
func NewSimulationSource(cfg *config.SimulationConfig, log zerolog.Logger) (*SimulationSource, error) {
	if len(cfg.Limits) == 0 {
		return nil, &config.ValidationError{Field: "limits", Reason: "must define at least one metric"}
	}
	for name, lim := range cfg.Limits {
		if lim.Fixed == nil && (lim.Min == nil || lim.Max == nil) {
			return nil, &config.ValidationError{
				Field:  "limits." + name,
				Reason: "must define either a fixed value or both min and max",
			}
		}
		if lim.Min != nil && lim.Max != nil && *lim.Min > *lim.Max {
			return nil, &config.ValidationError{
				Field:  "limits." + name,
				Reason: fmt.Sprintf("min %v exceeds max %v", *lim.Min, *lim.Max),
			}
		}
	}

	return &SimulationSource{
		limits: cfg.Limits,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logger.WithComponent(log, "simulation-source"),
	}, nil
}

// ReadAll generates one value per configured metric.
func (s *SimulationSource) ReadAll() (Readings, error) {
	readings := make(Readings, len(s.limits))
	for name, lim := range s.limits {
		readings[name] = s.generate(lim)
	}
	return readings, nil
}

func (s *SimulationSource) generate(lim config.LimitConfig) float64 {
	if lim.Fixed != nil {
		return *lim.Fixed
	}

	// Occasionally emit a value outside the range on either side.
	if lim.BadProbability > 0 && s.rng.Float64() < lim.BadProbability {
		if s.rng.Intn(2) == 0 {
			return *lim.Min - 10.0
		}
		return *lim.Max + 10.0
	}

	return *lim.Min + s.rng.Float64()*(*lim.Max-*lim.Min)
}
