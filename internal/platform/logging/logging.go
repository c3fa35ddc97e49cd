package logging

import (
	"fmt"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

// New opens path for appending and returns the root logger plus a close func.
// The terminal UI owns stdout, so logs always go to a file.
func New(path, level string) (hclog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "yogavrita",
		Level:      lvl,
		Output:     f,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return logger, f.Close, nil
}
