package envlock

import "os"

// stdEnv is the process environment. Tests swap in a fake to exercise failure paths.
var stdEnv = &environment{ //nolint:gochecknoglobals
	lookup: os.LookupEnv,
	set:    os.Setenv,
	unset:  os.Unsetenv,
}

type environment struct {
	lookup func(name string) (string, bool)
	set    func(name, value string) error
	unset  func(name string) error
}

func (env *environment) read(name string) Value {
	if value, ok := env.lookup(name); ok {
		return Set(value)
	}

	return Unset()
}

func (env *environment) write(v Var) error {
	if value, ok := v.Value.Get(); ok {
		return env.set(v.Name, value)
	}

	return env.unset(v.Name)
}
