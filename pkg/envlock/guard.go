package envlock

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gruntwork-io/envlock/internal/errors"
	"github.com/gruntwork-io/envlock/internal/locks"
	"github.com/gruntwork-io/envlock/internal/telemetry"
	"github.com/gruntwork-io/envlock/pkg/log"
)

// Guard holds the process environment lock together with the values its
// variables had before Lock changed them. Release restores those values in
// reverse order and then unlocks.
type Guard struct {
	captured []Var
	lock     *locks.Lock
	env      *environment
	lockedAt time.Time
	once     sync.Once
}

// Lock locks the environment and sets each given variable to its Value,
// removing the variables whose Value is absent. If the environment is already
// locked, Lock blocks until it is released; there is no timeout.
//
// When a name appears more than once, the last Value wins and the variable is
// captured once, before its first change, so Release restores the original.
//
// The returned Guard keeps the environment locked until Release is called.
// Release must be called on every path, usually with defer, or use LockT or Do.
//
// There is a single lock for the whole process, so guards never run
// concurrently even when they touch different variables. Calling Lock again
// from a goroutine that already holds a Guard deadlocks. Writing the
// environment with os.Setenv while guards are in use breaks restoration.
func Lock(vars ...Var) (*Guard, error) {
	return lockEnv(stdEnv, vars)
}

// MustLock is like Lock but panics if a variable name is invalid.
func MustLock(vars ...Var) *Guard {
	guard, err := Lock(vars...)
	if err != nil {
		panic(err)
	}

	return guard
}

func lockEnv(env *environment, vars []Var) (*Guard, error) {
	for _, v := range vars {
		if err := validateName(v.Name); err != nil {
			return nil, err
		}
	}

	lock := locks.EnvLock()
	start := time.Now()

	acquired, recovered := lock.TryAcquire()
	if !acquired {
		currentLogger().Tracef("Waiting for the environment lock")

		recovered = lock.Acquire()
	}

	waited := time.Since(start)

	guard := &Guard{
		lock:     lock,
		env:      env,
		lockedAt: time.Now(),
	}

	// Anything below may panic, including a custom logger or meter provider.
	defer func() {
		if r := recover(); r != nil {
			guard.abandon()
			panic(r)
		}
	}()

	cfg := loadConfig()
	logger := currentLogger()

	if recovered {
		logger.Warnf("Recovered the environment lock from a holder that panicked")
	}

	if cfg.WaitWarnThreshold > 0 && waited > cfg.WaitWarnThreshold {
		logger.Warnf("Waited %s for the environment lock, keep guarded sections short", waited)
	}

	telemetry.RecordAcquire(context.Background(), waited, recovered)

	if err := guard.apply(dedupe(vars)); err != nil {
		return nil, errors.Join(err, guard.Release())
	}

	logger.WithField(log.FieldKeyVars, len(guard.captured)).Debugf("Locked environment after waiting %s", waited)

	return guard, nil
}

// apply captures and sets each variable in order. The caller rolls back and
// unlocks when it fails.
func (guard *Guard) apply(vars []Var) error {
	guard.captured = make([]Var, 0, len(vars))

	for _, v := range vars {
		guard.captured = append(guard.captured, Var{Name: v.Name, Value: guard.env.read(v.Name)})

		if err := guard.env.write(v); err != nil {
			return errors.WithStackTraceAndPrefix(err, "setting environment variable %s", v.Name)
		}
	}

	return nil
}

// Release restores every captured variable, last touched first, and unlocks the
// environment. The lock is released even when a restore fails; the failures are
// returned together. Only the first call has any effect, later ones return nil.
func (guard *Guard) Release() error {
	if guard == nil {
		return nil
	}

	var err error

	guard.once.Do(func() {
		err = guard.release(guard.lock.Release)
	})

	return err
}

// abandon restores like Release but marks the lock poisoned.
func (guard *Guard) abandon() {
	guard.once.Do(func() {
		_ = guard.release(guard.lock.Abandon)
	})
}

// Captured returns the values the variables had before Lock, in the order they were first touched.
func (guard *Guard) Captured() []Var {
	if guard == nil {
		return nil
	}

	return slices.Clone(guard.captured)
}

func (guard *Guard) release(unlock func()) error {
	defer unlock()

	err := guard.restore()
	held := time.Since(guard.lockedAt)

	telemetry.RecordRelease(context.Background(), held)

	logger := currentLogger().WithField(log.FieldKeyVars, len(guard.captured))
	if err != nil {
		logger.WithError(err).Warnf("Environment was not fully restored")
	}

	logger.Debugf("Released environment after %s", held)

	return err
}

func (guard *Guard) restore() error {
	var errs *errors.MultiError

	for i := len(guard.captured) - 1; i >= 0; i-- {
		prior := guard.captured[i]

		if err := guard.env.write(prior); err != nil {
			errs = errs.Append(errors.WithStackTraceAndPrefix(err, "restoring environment variable %s", prior.Name))
		}
	}

	return errs.ErrorOrNil()
}
