package classifier

import (
	"errors"
	"fmt"
)

// Weights are the constants of the confidence blend:
//
//	Category*top/CategoryDivisor + min(RequirementCap, PerRequirement*n)
//	  + Urgency*urgencyScore + Budget (when known)
//
// clamped to [0,1]. A message is a design request when the result is
// strictly greater than Threshold.
type Weights struct {
	Category        float64 `yaml:"category" json:"category"`
	CategoryDivisor float64 `yaml:"category_divisor" json:"category_divisor"`
	PerRequirement  float64 `yaml:"per_requirement" json:"per_requirement"`
	RequirementCap  float64 `yaml:"requirement_cap" json:"requirement_cap"`
	Urgency         float64 `yaml:"urgency" json:"urgency"`
	Budget          float64 `yaml:"budget" json:"budget"`
	Threshold       float64 `yaml:"threshold" json:"threshold"`
}

// DefaultWeights returns the standard weights.
func DefaultWeights() Weights {
	return Weights{
		Category:        0.4,
		CategoryDivisor: 3,
		PerRequirement:  0.05,
		RequirementCap:  0.3,
		Urgency:         0.2,
		Budget:          0.1,
		Threshold:       0.3,
	}
}

// Validate checks that every weight is usable.
func (w Weights) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"category", w.Category},
		{"per_requirement", w.PerRequirement},
		{"requirement_cap", w.RequirementCap},
		{"urgency", w.Urgency},
		{"budget", w.Budget},
	} {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("weights.%s: must not be negative, got %v", f.name, f.value))
		}
	}
	if w.CategoryDivisor <= 0 {
		errs = append(errs, fmt.Errorf("weights.category_divisor: must be positive, got %v", w.CategoryDivisor))
	}
	if w.Threshold < 0 || w.Threshold > 1 {
		errs = append(errs, fmt.Errorf("weights.threshold: must be between 0 and 1, got %v", w.Threshold))
	}
	return errors.Join(errs...)
}
