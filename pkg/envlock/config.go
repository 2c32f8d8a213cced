package envlock

import (
	"sync"
	"time"

	"github.com/gruntwork-io/envlock/internal/telemetry"
	"github.com/gruntwork-io/envlock/pkg/env"
	"github.com/gruntwork-io/envlock/pkg/log"
)

const (
	EnvLogLevel         = "ENVLOCK_LOG_LEVEL"
	EnvWaitWarnSeconds  = "ENVLOCK_WAIT_WARN_SECONDS"
	EnvMetricsDisabled  = "ENVLOCK_METRICS_DISABLED"
	DefaultLogLevel     = log.WarnLevel
	DefaultWaitWarnTime = 10 * time.Second
)

// Config controls logging and telemetry around the lock. It never changes
// locking or restoration behavior.
type Config struct {
	// LogLevel of the package logger when SetLogger has not been called.
	LogLevel log.Level
	// WaitWarnThreshold logs a warning when acquisition blocked longer than this. Zero disables it.
	WaitWarnThreshold time.Duration
	// MetricsDisabled turns off OpenTelemetry instruments.
	MetricsDisabled bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:          DefaultLogLevel,
		WaitWarnThreshold: DefaultWaitWarnTime,
	}
}

// ConfigFromEnv reads ENVLOCK_* variables on top of DefaultConfig. Values that
// fail to parse keep their defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if level, err := log.ParseLevel(env.GetStringEnv(EnvLogLevel, "")); err == nil {
		cfg.LogLevel = level
	}

	cfg.WaitWarnThreshold = env.GetSecondsEnv(EnvWaitWarnSeconds, cfg.WaitWarnThreshold)
	cfg.MetricsDisabled = env.GetBoolEnv(EnvMetricsDisabled, cfg.MetricsDisabled)

	return cfg
}

var ( //nolint:gochecknoglobals
	configOnce sync.Once

	stateMu      sync.Mutex
	config       = DefaultConfig()
	logger       log.Logger
	customLogger bool
)

// Configure sets the configuration explicitly. Once it has been called, or once
// the first Lock has read ENVLOCK_* variables, later environment changes have no effect.
func Configure(cfg Config) {
	configOnce.Do(func() {})
	applyConfig(cfg)
}

// loadConfig must run with the environment lock held, before any mutation is applied.
func loadConfig() Config {
	configOnce.Do(func() {
		applyConfig(ConfigFromEnv())
	})

	stateMu.Lock()
	defer stateMu.Unlock()

	return config
}

func applyConfig(cfg Config) {
	stateMu.Lock()
	defer stateMu.Unlock()

	config = cfg
	telemetry.SetEnabled(!cfg.MetricsDisabled)

	if !customLogger {
		logger = defaultLogger(cfg.LogLevel)
	}
}

// SetLogger replaces the package logger. Passing nil restores the default.
func SetLogger(l log.Logger) {
	stateMu.Lock()
	defer stateMu.Unlock()

	customLogger = l != nil
	logger = l

	if l == nil {
		logger = defaultLogger(config.LogLevel)
	}
}

func currentLogger() log.Logger {
	stateMu.Lock()
	defer stateMu.Unlock()

	if logger == nil {
		logger = defaultLogger(config.LogLevel)
	}

	return logger
}

func defaultLogger(level log.Level) log.Logger {
	return log.NewStderr(level).WithField(log.FieldKeyPrefix, "envlock")
}
