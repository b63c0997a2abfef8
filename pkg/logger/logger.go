package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init builds the process logger and installs it as zerolog's global.
// Output goes to the console; when file is set it is also written to a
// size-rotated file.
func Init(level, file string) zerolog.Logger { return InitTo(os.Stdout, level, file) }

// InitTo is Init with the console output on w; lendctl logs to stderr so
// stdout stays machine-readable.
func InitTo(w io.Writer, level, file string) zerolog.Logger {
	return initWith(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, level, file)
}

func initWith(console io.Writer, level, file string) zerolog.Logger {
	out := console
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			log.Error().Err(err).Str("path", file).Msg("log directory not created; file logging disabled")
		} else {
			out = io.MultiWriter(console, &lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // megabytes
				MaxBackups: 5,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", "lending-ledger").
		Logger()

	log.Logger = l
	return l
}

// ParseLevel falls back to info for empty or unknown names.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
