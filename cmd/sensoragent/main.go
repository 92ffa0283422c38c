// Package main is the entry point for the sensoragent application.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
	"sensoragent/internal/network"
	"sensoragent/internal/registry"
	"sensoragent/internal/sensor"
	"sensoragent/internal/source"
	"sensoragent/internal/spool"
	"sensoragent/internal/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// runDurationEnv optionally bounds the total run time; 0 or unset means
// run until a termination signal arrives.
const runDurationEnv = "RUN_DURATION_SECONDS"

func main() {
	var (
		sensorPath     = flag.String("sensor-config", "config/sensor_config.json", "Path to sensor configuration file")
		transportPath  = flag.String("transport-config", "config/transport_config.json", "Path to transport configuration file")
		loggingPath    = flag.String("logging-config", "config/logging_config.json", "Path to logging configuration file")
		simulationPath = flag.String("simulation-config", "", "Path to simulation data source configuration (required for -source=simulation)")
		registryPath   = flag.String("registry-config", "", "Path to sensor registry configuration (optional)")
		sourceKind     = flag.String("source", "camera", "Data source kind: camera, simulation, or system")
		showVersion    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sensoragent %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	lc := logger.DefaultConfig()
	if loaded, err := config.LoadLogging(*loggingPath); err == nil {
		lc = *loaded
	} else {
		fmt.Fprintf(os.Stderr, "Using default logging configuration: %v\n", err)
	}

	log, err := logger.New(lc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("version", version).
		Str("sensor_config", *sensorPath).
		Str("transport_config", *transportPath).
		Str("source", *sourceKind).
		Msg("Starting sensoragent")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, *sensorPath, *transportPath, *loggingPath, *simulationPath, *registryPath, *sourceKind); err != nil {
		log.Fatal().Err(err).Msg("sensoragent exited with error")
	}

	log.Info().Msg("sensoragent stopped")
}

// buildSource constructs the configured data source.
func buildSource(kind, simulationPath string, log zerolog.Logger) (source.Source, error) {
	switch strings.ToLower(kind) {
	case "camera":
		cam := source.NewMockCamera()
		if err := cam.Open(0); err != nil {
			return nil, fmt.Errorf("failed to open camera: %w", err)
		}
		log.Info().Str("backend", cam.Backend()).Msg("Camera opened")
		return source.NewCameraSource(cam, log), nil
	case "simulation":
		if simulationPath == "" {
			return nil, fmt.Errorf("-source=simulation requires -simulation-config")
		}
		cfg, err := config.LoadSimulation(simulationPath)
		if err != nil {
			return nil, err
		}
		return source.NewSimulationSource(cfg, log)
	case "system":
		return source.NewSystemSource(log), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q (supported: camera, simulation, system)", kind)
	}
}

// resolveMetadata merges registry-provided metadata into the sensor config.
// File-configured entries win on key conflicts. A failed lookup is logged
// and the sensor runs with its file metadata alone.
func resolveMetadata(ctx context.Context, registryPath string, scfg *config.SensorConfig,
	dial network.DialFunc, log zerolog.Logger) error {

	if registryPath == "" {
		return nil
	}

	rcfg, err := config.LoadRegistry(registryPath)
	if err != nil {
		return err
	}
	if rcfg.Address == "" {
		return nil
	}

	meta, err := registry.FetchMetadata(ctx, *rcfg, dial, scfg.SensorID)
	if err != nil {
		log.Warn().Err(err).Msg("Registry lookup failed, continuing with file metadata")
		return nil
	}
	if meta == nil {
		log.Info().Str("sensor_id", scfg.SensorID).Msg("No registry entry for sensor")
		return nil
	}

	if scfg.Metadata == nil {
		scfg.Metadata = make(map[string]string, len(meta))
	}
	for k, v := range meta {
		if _, ok := scfg.Metadata[k]; !ok {
			scfg.Metadata[k] = v
		}
	}
	log.Info().Int("fields", len(meta)).Msg("Registry metadata merged")
	return nil
}

func run(ctx context.Context, log zerolog.Logger, sensorPath, transportPath, loggingPath, simulationPath, registryPath, sourceKind string) error {
	scfg, err := config.LoadSensor(sensorPath)
	if err != nil {
		return fmt.Errorf("failed to load sensor configuration: %w", err)
	}
	tcfg, err := config.LoadTransport(transportPath)
	if err != nil {
		return fmt.Errorf("failed to load transport configuration: %w", err)
	}

	dial := network.DialerFunc(tcfg.SOCKSProxy.Host, tcfg.SOCKSProxy.Port)
	if dial != nil {
		log.Info().
			Str("socks_host", tcfg.SOCKSProxy.Host).
			Int("socks_port", tcfg.SOCKSProxy.Port).
			Msg("SOCKS proxy configured")
	}

	if err := resolveMetadata(ctx, registryPath, scfg, dial, log); err != nil {
		return err
	}

	src, err := buildSource(sourceKind, simulationPath, log)
	if err != nil {
		return err
	}

	conn, err := transport.New(*tcfg, dial, log)
	if err != nil {
		return err
	}

	var opts []sensor.Option
	if scfg.Spool.Enabled {
		sp, err := spool.New(scfg.Spool, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := sp.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing spool")
			}
		}()
		opts = append(opts, sensor.WithSpool(sp))
	}

	sns, err := sensor.New(*scfg, src, conn, log, opts...)
	if err != nil {
		return err
	}
	defer func() {
		log.Info().Msg("Closing sensor")
		_ = sns.Close()
	}()

	if err := sns.Connect(ctx); err != nil {
		return err
	}

	// Hot-reload of the log level
	loggingWatcher, err := config.NewLoggingWatcher(loggingPath, log, func(lc *logger.Config) {
		logger.SetLevel(lc.Level)
		log.Info().Str("level", lc.Level).Msg("Log level updated")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create logging watcher, hot reload disabled")
	} else if err := loggingWatcher.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start logging watcher")
	} else {
		defer func() {
			if err := loggingWatcher.Stop(); err != nil {
				log.Error().Err(err).Msg("Error stopping logging watcher")
			}
		}()
	}

	runCtx := ctx
	if secs := runDurationSeconds(); secs > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(secs)*time.Second)
		defer cancel()
		log.Info().Int("seconds", secs).Msg("Run duration limit active")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sns.Run(runCtx)
	}()

	heartbeat := time.NewTicker(time.Minute)
	defer heartbeat.Stop()

	for {
		select {
		case <-done:
			return nil
		case <-runCtx.Done():
			log.Info().Msg("Received shutdown signal")
			<-done
			return nil
		case <-heartbeat.C:
			log.Info().Msg("Heartbeat: sensor loop running")
		}
	}
}

func runDurationSeconds() int {
	v := os.Getenv(runDurationEnv)
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}
