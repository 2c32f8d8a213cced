package log_test

import (
	"bytes"
	"testing"

	"github.com/gruntwork-io/envlock/pkg/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level log.Level) (log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.New(
		log.WithOutput(&buf),
		log.WithLevel(level),
		log.WithFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}),
	)

	return logger, &buf
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected log.Level
		wantErr  bool
	}{
		{"error", log.ErrorLevel, false},
		{"WARN", log.WarnLevel, false},
		{"warning", log.WarnLevel, false},
		{" info ", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"trace", log.TraceLevel, false},
		{"verbose", log.ErrorLevel, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			level, err := log.ParseLevel(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "error, warn, info, debug, trace")

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, level)
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(log.WarnLevel)
	assert.Equal(t, log.WarnLevel, logger.Level())

	logger.Debugf("hidden %d", 1)
	logger.Warnf("shown %d", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 2")

	require.NoError(t, logger.SetLevel("debug"))
	logger.Debugf("now visible")
	assert.Contains(t, buf.String(), "now visible")

	require.Error(t, logger.SetLevel("loud"))
}

func TestLoggerWithFields(t *testing.T) {
	t.Parallel()

	logger, buf := newBufferLogger(log.InfoLevel)

	logger.WithField(log.FieldKeyPrefix, "envlock").WithFields(log.Fields{log.FieldKeyVars: 3}).Infof("locked")

	assert.Contains(t, buf.String(), "prefix=envlock")
	assert.Contains(t, buf.String(), "vars=3")
	assert.Contains(t, buf.String(), "locked")
}

func TestLoggerWithOptionsDoesNotChangeParent(t *testing.T) {
	t.Parallel()

	parent, buf := newBufferLogger(log.WarnLevel)
	child := parent.WithOptions(log.WithLevel(log.DebugLevel))

	assert.Equal(t, log.WarnLevel, parent.Level())
	assert.Equal(t, log.DebugLevel, child.Level())

	child.Debugf("child debug")
	parent.Debugf("parent debug")

	assert.Contains(t, buf.String(), "child debug")
	assert.NotContains(t, buf.String(), "parent debug")
}
