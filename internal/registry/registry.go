// Package registry resolves static sensor metadata from a central Redis
// registry. The lookup is optional: a sensor with no registry entry runs
// with its file-configured metadata alone.
package registry

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"sensoragent/internal/config"
)

// sensorKey builds the hash key for one sensor's registry entry.
func sensorKey(sensorID string) string {
	return "SENSOR_INFO:" + sensorID
}

// FetchMetadata retrieves the metadata hash for a sensor from the registry.
// Returns nil (not an error) when the sensor has no entry - expected for
// newly provisioned sensors. dialFunc is optional; when non-nil it is used
// as the client dialer (e.g., through a SOCKS proxy).
func FetchMetadata(ctx context.Context, cfg config.RegistryConfig,
	dialFunc func(network, addr string) (net.Conn, error), sensorID string) (map[string]string, error) {

	client := newClient(cfg, dialFunc)
	defer client.Close()

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	values, err := client.HGetAll(queryCtx, sensorKey(sensorID)).Result()
	if err != nil {
		return nil, fmt.Errorf("registry HGETALL %s failed: %w", sensorKey(sensorID), err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	return values, nil
}

// newClient creates a Redis client with an optional custom dialer.
func newClient(cfg config.RegistryConfig, dialFunc func(network, addr string) (net.Conn, error)) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if dialFunc != nil {
		opts.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialFunc(network, addr)
		}
	}

	return redis.NewClient(opts)
}
