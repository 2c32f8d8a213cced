package envlock

import "strconv"

// Value is the state of one environment variable: either present with a string
// value or absent. The zero Value is absent; an empty string is present.
type Value struct {
	value   string
	present bool
}

// Set returns a Value that is present with the given string.
func Set(value string) Value {
	return Value{value: value, present: true}
}

// Unset returns a Value that is absent.
func Unset() Value {
	return Value{}
}

// Get returns the string and whether the variable is present.
func (v Value) Get() (string, bool) {
	return v.value, v.present
}

// IsSet reports whether the variable is present.
func (v Value) IsSet() bool {
	return v.present
}

func (v Value) String() string {
	if !v.present {
		return "<unset>"
	}

	return strconv.Quote(v.value)
}

// Var names an environment variable together with a Value for it.
type Var struct {
	Name  string
	Value Value
}

// Setenv returns a Var that sets name to value.
func Setenv(name, value string) Var {
	return Var{Name: name, Value: Set(value)}
}

// Unsetenv returns a Var that removes name from the environment.
func Unsetenv(name string) Var {
	return Var{Name: name, Value: Unset()}
}

// FromPtr maps a nil pointer to an unset variable.
func FromPtr(name string, value *string) Var {
	if value == nil {
		return Unsetenv(name)
	}

	return Setenv(name, *value)
}

func (v Var) String() string {
	return v.Name + "=" + v.Value.String()
}

// dedupe keeps the last Value given for each name, placed where the name first appeared.
func dedupe(vars []Var) []Var {
	out := make([]Var, 0, len(vars))
	index := make(map[string]int, len(vars))

	for _, v := range vars {
		if i, ok := index[v.Name]; ok {
			out[i].Value = v.Value
			continue
		}

		index[v.Name] = len(out)
		out = append(out, v)
	}

	return out
}
