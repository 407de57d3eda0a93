// Package solver turns contacts and constraints into velocity equations and
// solves them with projected Gauss-Seidel, then integrates the bodies.
//
// Equations use the SPOOK stabilization: a constraint violation g and its
// velocity GW are both driven to zero, with a stiffness and a relaxation
// (in timesteps) instead of a hard projection.
package solver

const (
	DefaultIterations = 20
	DefaultTolerance  = 1e-7
	DefaultStiffness  = 1e7
	DefaultRelaxation = 3
)

// Config tunes the solver
type Config struct {
	// Iterations is the maximum number of Gauss-Seidel passes per step
	Iterations int `yaml:"iterations"`
	// Tolerance stops the passes early once the sum of |Δλ| of a pass falls below it
	Tolerance float64 `yaml:"tolerance"`
	// Stiffness of every equation
	Stiffness float64 `yaml:"stiffness"`
	// Relaxation is the number of timesteps a violation takes to be corrected
	Relaxation float64 `yaml:"relaxation"`
}

func DefaultConfig() Config {
	return Config{
		Iterations: DefaultIterations,
		Tolerance:  DefaultTolerance,
		Stiffness:  DefaultStiffness,
		Relaxation: DefaultRelaxation,
	}
}

// spook holds the parameters derived from the stiffness, the relaxation and the timestep
type spook struct {
	a   float64
	b   float64
	eps float64
}

func newSpook(dt, stiffness, relaxation float64) spook {
	d := relaxation
	return spook{
		a:   4.0 / (dt * (1 + 4*d)),
		b:   (4.0 * d) / (1 + 4*d),
		eps: 4.0 / (dt * dt * stiffness * (1 + 4*d)),
	}
}
