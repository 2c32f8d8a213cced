package envlock

import "github.com/gruntwork-io/envlock/internal/errors"

// TB is the subset of testing.TB used by LockT.
type TB interface {
	Helper()
	Cleanup(func())
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// LockT locks the environment for the rest of the test. The guard is released
// by t.Cleanup, which also runs when the test fails or panics. Safe to use from
// tests that call t.Parallel, unlike t.Setenv.
func LockT(t TB, vars ...Var) *Guard {
	t.Helper()

	guard, err := Lock(vars...)
	if err != nil {
		t.Fatalf("locking environment: %v", err)
		return nil
	}

	t.Cleanup(func() {
		if err := guard.Release(); err != nil {
			t.Errorf("restoring environment: %v", err)
		}
	})

	return guard
}

// Do runs fn with the environment locked and vars applied, restoring and
// unlocking on every exit path. If fn panics, the environment is restored and
// the lock is marked abandoned before the panic continues.
func Do(vars []Var, fn func() error) (err error) {
	guard, err := Lock(vars...)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			guard.abandon()
			panic(r)
		}

		err = errors.Join(err, guard.Release())
	}()

	return fn()
}
