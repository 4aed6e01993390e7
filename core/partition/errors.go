package partition

import (
	"errors"
	"fmt"
)

// ErrConfig marks fatal input errors. No partial output accompanies it.
var ErrConfig = errors.New("invalid partition configuration")

// ConfigError identifies the microsegment, measure and field at fault.
type ConfigError struct {
	KeyChain string
	Measure  string
	Field    string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: measure %q, key chain %s, field %s: %v", ErrConfig, e.Measure, e.KeyChain, e.Field, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Err }

// Is matches ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }
