package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where log events go and how verbose they are.
type Config struct {
	// Level is one of trace, debug, info, warn, error, disabled. Empty means warn.
	Level string

	// File, when set, receives JSON events through a rotating writer.
	File string

	// MaxSizeMB is the size at which File is rotated (default: 10)
	MaxSizeMB int

	// MaxBackups is how many rotated files are kept (default: 3)
	MaxBackups int

	// Console writes human-readable events to Stderr.
	Console bool

	// NoColor disables colors in console output
	NoColor bool

	// Stderr defaults to os.Stderr
	Stderr io.Writer
}

// New builds a logger from cfg. The returned closer flushes and closes the
// log file, if any.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        stderr,
			NoColor:    cfg.NoColor,
			TimeFormat: "15:04:05.000",
		})
	}

	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    valueOr(cfg.MaxSizeMB, 10),
			MaxBackups: valueOr(cfg.MaxBackups, 3),
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

// ParseLevel parses a level name. Empty means warn.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func valueOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
