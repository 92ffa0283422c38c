package source

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/rs/zerolog"

	"sensoragent/internal/logger"
)

// SystemSource reads host-level metrics (CPU, memory, uptime) as sensor
// readings, for deployments where the machine itself is the instrument.
type SystemSource struct {
	log zerolog.Logger
}

// NewSystemSource creates a host metrics source.
func NewSystemSource(log zerolog.Logger) *SystemSource {
	return &SystemSource{log: logger.WithComponent(log, "system-source")}
}

// ReadAll samples the host. The CPU percentage blocks briefly to measure a
// delta; swap metrics are optional and omitted when unavailable.
func (s *SystemSource) ReadAll() (Readings, error) {
	readings := Readings{}

	percentages, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil {
		return nil, err
	}
	if len(percentages) > 0 {
		readings["cpu_percent"] = percentages[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	readings["memory_percent"] = vm.UsedPercent

	if swap, err := mem.SwapMemory(); err == nil {
		readings["swap_percent"] = swap.UsedPercent
	}

	uptime, err := host.Uptime()
	if err != nil {
		return nil, err
	}
	readings["uptime_seconds"] = float64(uptime)

	return readings, nil
}
