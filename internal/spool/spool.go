// Package spool provides an optional local record of sent payloads, written
// to a rotating file for offline inspection.
package spool

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
)

// Spool appends newline-terminated payloads to a rotating file and
// optionally echoes them to the console.
type Spool struct {
	writer  *lumberjack.Logger
	console bool

	mu     sync.Mutex
	closed bool
}

// New creates a spool from the given configuration.
func New(cfg config.SpoolConfig, log zerolog.Logger) (*Spool, error) {
	slog := logger.WithComponent(log, "spool")

	dir := filepath.Dir(cfg.FilePath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create spool directory: %w", err)
		}
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}

	slog.Info().
		Str("file_path", cfg.FilePath).
		Bool("console", cfg.Console).
		Msg("Spool initialized")

	return &Spool{
		writer:  writer,
		console: cfg.Console,
	}, nil
}

// Record appends one payload. The payload is written as-is; a trailing
// newline is added only if missing.
func (s *Spool) Record(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("spool is closed")
	}

	line := payload
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append([]byte(nil), payload...), '\n')
	}

	if _, err := s.writer.Write(line); err != nil {
		return fmt.Errorf("failed to write to spool: %w", err)
	}

	if s.console {
		fmt.Print(string(bytes.TrimRight(line, "\n")) + "\n")
	}

	return nil
}

// Close releases the underlying file. Idempotent.
func (s *Spool) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.writer.Close()
}
