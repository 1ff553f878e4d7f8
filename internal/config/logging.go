package config

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the JSON slog logger on stdout. When cfg.LogFile is set,
// output is also written to a size-rotated file.
// Returns the logger and a close function for the file writer.
func NewLogger(cfg *Config) (*slog.Logger, func() error) {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo is NewLogger with a caller-chosen console writer.
func NewLoggerTo(cfg *Config, console io.Writer) (*slog.Logger, func() error) {
	writers := []io.Writer{console}
	closeFn := func() error { return nil }

	if cfg.LogFile != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			Compress:   true,
		}
		writers = append(writers, fileWriter)
		closeFn = fileWriter.Close
	}

	level := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn
}
