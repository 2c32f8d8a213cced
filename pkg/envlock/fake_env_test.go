package envlock

import (
	"fmt"
	"maps"
	"sync"
)

// fakeEnv is an in-memory environment that can be told to fail writes.
type fakeEnv struct {
	mu       sync.Mutex
	vars     map[string]string
	writes   []string
	failSet  map[string]error
	failNext map[string]int
}

func newFakeEnv(vars map[string]string) *fakeEnv {
	if vars == nil {
		vars = make(map[string]string)
	}

	return &fakeEnv{
		vars:     vars,
		failSet:  make(map[string]error),
		failNext: make(map[string]int),
	}
}

// failAfter makes writes to name fail once it has been written n times.
func (f *fakeEnv) failAfter(name string, n int, err error) {
	f.failSet[name] = err
	f.failNext[name] = n
}

func (f *fakeEnv) fail(name string) error {
	err, ok := f.failSet[name]
	if !ok {
		return nil
	}

	if f.failNext[name] > 0 {
		f.failNext[name]--
		return nil
	}

	return err
}

func (f *fakeEnv) environment() *environment {
	return &environment{
		lookup: func(name string) (string, bool) {
			f.mu.Lock()
			defer f.mu.Unlock()

			value, ok := f.vars[name]

			return value, ok
		},
		set: func(name, value string) error {
			f.mu.Lock()
			defer f.mu.Unlock()

			if err := f.fail(name); err != nil {
				return err
			}

			f.writes = append(f.writes, fmt.Sprintf("set %s=%s", name, value))
			f.vars[name] = value

			return nil
		},
		unset: func(name string) error {
			f.mu.Lock()
			defer f.mu.Unlock()

			if err := f.fail(name); err != nil {
				return err
			}

			f.writes = append(f.writes, "unset "+name)
			delete(f.vars, name)

			return nil
		},
	}
}

func (f *fakeEnv) snapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return maps.Clone(f.vars)
}
