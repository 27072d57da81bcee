// Package logger configures the global zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/mika-travel/internal/config"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger described by cfg. The returned closer
// releases the rotating log file, if any.
func Setup(cfg config.LoggingConfig, production bool) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var console io.Writer = os.Stderr
	if cfg.Format == "console" || (cfg.Format == "" && !production) {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if cfg.File.Path != "" {
		rl, err := newRotator(cfg.File)
		if err != nil {
			return nil, err
		}
		writers = append(writers, rl)
		closer = rl
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "mika-travel").
		Logger()
	zerolog.DefaultContextLogger = &log.Logger

	return closer, nil
}

func newRotator(cfg config.LogFileConfig) (*rotatelogs.RotateLogs, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	opts := []rotatelogs.Option{
		rotatelogs.WithLinkName(cfg.Path),
	}
	if cfg.MaxAge > 0 {
		opts = append(opts, rotatelogs.WithMaxAge(cfg.MaxAge))
	}
	if cfg.RotationTime > 0 {
		opts = append(opts, rotatelogs.WithRotationTime(cfg.RotationTime))
	}

	rl, err := rotatelogs.New(cfg.Path+".%Y%m%d", opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return rl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
