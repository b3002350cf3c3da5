package jsonsize

import "fmt"

// ConfigError is returned when a configuration struct holds a value that
// cannot be used.
type ConfigError struct {
	// A human-readable message explaining why the configuration field's
	// value is invalid.
	Reason string

	// The name of the configuration field that was carrying an invalid value.
	Field string

	// The value of the configuration field that caused the error.
	Value interface{}
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("jsonsize: %s (%s: %#v)", e.Reason, e.Field, e.Value)
}
