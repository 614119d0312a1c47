package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options mirror the LOG_* environment variables: console output is the
// default, file output appends to <dir>/analyzer.log.
type Options struct {
	Level     string
	Dir       string
	ToFile    bool
	ToConsole bool
}

func InitLogger(opts Options) {
	var writers []io.Writer
	if opts.ToConsole {
		writers = append(writers, os.Stdout)
	}
	if opts.ToFile {
		if file, err := openLogFile(opts.Dir); err == nil {
			writers = append(writers, file)
		} else {
			slog.Warn("Failed to open log file, console only",
				slog.String("error", err.Error()))
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	handler := tint.NewHandler(io.MultiWriter(writers...), &tint.Options{
		Level:      parseLevel(opts.Level),
		TimeFormat: time.Kitchen,
		AddSource:  true,
	})

	slog.SetDefault(slog.New(handler))
}

func openLogFile(dir string) (*os.File, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "analyzer.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
