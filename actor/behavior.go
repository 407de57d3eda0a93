package actor

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every ConfigurationError
var ErrConfiguration = errors.New("invalid body configuration")

// ConfigurationError reports a body setup that makes no physical sense
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConfiguration, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Behavior tells whether a body is static (immovable, zero mass) or dynamic
type Behavior struct {
	dynamic bool
	mass    float64
}

// Static bodies are immovable, they are not affected by forces or gravity (e.g., ground, walls)
func Static() Behavior {
	return Behavior{}
}

// Dynamic bodies are affected by forces, gravity, and collisions
func Dynamic(mass float64) Behavior {
	return Behavior{dynamic: true, mass: mass}
}

func (b Behavior) IsDynamic() bool {
	return b.dynamic
}

// Mass requested for a dynamic behavior, 0 for static
func (b Behavior) Mass() float64 {
	return b.mass
}

func (b Behavior) String() string {
	if b.dynamic {
		return fmt.Sprintf("dynamic(%g)", b.mass)
	}
	return "static"
}
