// Package log provides a leveled logger with structured logging support.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewStderr returns a text logger writing to stderr at the given level.
func NewStderr(level Level) Logger {
	return New(
		WithOutput(os.Stderr),
		WithLevel(level),
		WithFormatter(&logrus.TextFormatter{DisableTimestamp: true}),
	)
}
