package terrain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIndex is matched by errors returned for lattice accesses
	// outside of the field's sample range.
	ErrInvalidIndex = errors.New("lattice index out of range")
	// ErrInvalidConfig is matched by all configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IndexError reports a lattice coordinate outside [0,Dims] on some axis.
type IndexError struct {
	I, J, K int
	// Dims is the largest valid index per axis of the field accessed.
	Dims V3i
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("lattice index (%d,%d,%d) out of range [0,%d]x[0,%d]x[0,%d]",
		e.I, e.J, e.K, e.Dims[0], e.Dims[1], e.Dims[2])
}

// Is reports whether target is ErrInvalidIndex.
func (e *IndexError) Is(target error) bool { return target == ErrInvalidIndex }

// ConfigError is returned when a parameter is rejected at construction time.
// No field state is modified when a ConfigError is returned.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return "terrain: bad " + e.Field + ": " + e.Msg
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
