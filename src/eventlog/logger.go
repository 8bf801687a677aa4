package eventlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// InitLogger installs the process-wide slog logger. With a non-empty path the log is
// also written to that file; the returned closer releases it.
func InitLogger(level slog.Level, path string) (io.Closer, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if path != "" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, logFile)
		closer = logFile
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})
	slog.SetDefault(slog.New(handler))
	return closer, nil
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format("15:04:05"))
		}
	}
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			file := source.File
			if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
				file = file[lastSlash+1:]
			}
			a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
		}
	}
	return a
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
