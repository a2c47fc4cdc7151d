package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the standard logrus logger. Logs go to stderr
// unless a file is named, since stdout belongs to the command protocols. The
// returned function closes the file, if any.
func SetupLogging(cfg LogConfig) (func() error, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	logrus.SetLevel(level)

	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closer = file.Close
	}
	logrus.SetOutput(out)
	return closer, nil
}
