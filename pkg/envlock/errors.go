package envlock

import (
	"fmt"
	"strings"

	"github.com/gruntwork-io/envlock/internal/errors"
)

// InvalidVariableNameError is returned by Lock when a name cannot be used as an
// environment variable on this platform. Nothing is locked or mutated when it is returned.
type InvalidVariableNameError struct {
	Name   string
	Reason string
}

func (err InvalidVariableNameError) Error() string {
	return fmt.Sprintf("invalid environment variable name %q: %s", err.Name, err.Reason)
}

func validateName(name string) error {
	switch {
	case name == "":
		return errors.New(InvalidVariableNameError{Name: name, Reason: "name is empty"})
	case strings.ContainsRune(name, '='):
		return errors.New(InvalidVariableNameError{Name: name, Reason: "name contains '='"})
	case strings.ContainsRune(name, 0):
		return errors.New(InvalidVariableNameError{Name: name, Reason: "name contains a NUL byte"})
	}

	return nil
}
