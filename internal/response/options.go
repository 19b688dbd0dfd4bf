package response

import (
	"errors"
	"fmt"
)

// ReturnKind selects the return definition.
type ReturnKind uint8

const (
	// Arithmetic is (p[t+τ] - p[t]) / p[t].
	Arithmetic ReturnKind = iota
	// Log is ln(p[t+τ] / p[t]).
	Log
)

func (k ReturnKind) String() string {
	if k == Log {
		return "log"
	}
	return "arithmetic"
}

// ParseReturnKind accepts "arithmetic" or "log".
func ParseReturnKind(s string) (ReturnKind, error) {
	switch s {
	case "arithmetic", "simple":
		return Arithmetic, nil
	case "log":
		return Log, nil
	}
	return 0, fmt.Errorf("unknown return kind %q", s)
}

// SupportPolicy selects what the numerator is divided by.
type SupportPolicy uint8

const (
	// InRange counts cells with a nonzero sign whose t+τ is on the grid.
	InRange SupportPolicy = iota
	// AllSigns counts every nonzero sign of the day regardless of τ.
	AllSigns
)

func (p SupportPolicy) String() string {
	if p == AllSigns {
		return "all_signs"
	}
	return "in_range"
}

// ParseSupportPolicy accepts "in_range" or "all_signs".
func ParseSupportPolicy(s string) (SupportPolicy, error) {
	switch s {
	case "in_range":
		return InRange, nil
	case "all_signs":
		return AllSigns, nil
	}
	return 0, fmt.Errorf("unknown support policy %q", s)
}

// Options parameterizes an estimate.
type Options struct {
	TauMax  int
	Returns ReturnKind
	Support SupportPolicy
}

// Validate checks the lag bound.
func (o Options) Validate() error {
	if o.TauMax < 1 {
		return errors.New("tau_max must be >= 1")
	}
	return nil
}
