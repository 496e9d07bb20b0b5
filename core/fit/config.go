package fit

import "fmt"

// Config controls the constrained solver. It is passed explicitly to New so
// fits stay referentially transparent; there is no package-level solver state.
type Config struct {
	// Solver selects the minimization method: "bfgs" or "neldermead".
	Solver string `json:"solver"`
	// MaxIterations caps the major iterations of each inner minimization.
	MaxIterations int `json:"max_iterations"`
	// ConstraintTol is the accepted magnitude of the closure residual.
	ConstraintTol float64 `json:"constraint_tolerance"`
	// PenaltyStart, PenaltyGrowth and PenaltyRounds configure the outer
	// penalty loop enforcing the equality constraint.
	PenaltyStart  float64 `json:"penalty_start"`
	PenaltyGrowth float64 `json:"penalty_growth"`
	PenaltyRounds int     `json:"penalty_rounds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Solver == "" {
		c.Solver = SolverBFGS
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = 400
	}
	if c.ConstraintTol == 0 {
		c.ConstraintTol = 1e-4
	}
	if c.PenaltyStart == 0 {
		c.PenaltyStart = 100
	}
	if c.PenaltyGrowth == 0 {
		c.PenaltyGrowth = 10
	}
	if c.PenaltyRounds == 0 {
		c.PenaltyRounds = 6
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, ok := methods[c.Solver]; !ok {
		return fmt.Errorf("unknown solver %q", c.Solver)
	}
	if c.ConstraintTol <= 0 {
		return fmt.Errorf("constraint tolerance must be positive")
	}
	if c.PenaltyStart <= 0 || c.PenaltyGrowth <= 1 {
		return fmt.Errorf("penalty schedule must grow from a positive start")
	}
	return nil
}
