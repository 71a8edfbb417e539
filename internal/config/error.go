package config

import "fmt"

type ConfigInitError struct {
	msg string
}

func (e *ConfigInitError) Error() string {
	return e.msg
}

// ValidationError reports a config field holding a value sleuth cannot use.
type ValidationError struct {
	Field string
	Value any
	Allow string
}

func (e *ValidationError) Error() string {
	if e.Allow == "" {
		return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s: %v. Please choose from %s.", e.Field, e.Value, e.Allow)
}
