package grid

import (
	"fmt"

	"github.com/rickgao/impact-response/internal/model"
)

// Hold selects which sample wins when several land in one cell.
type Hold uint8

const (
	// Last keeps the chronologically last sample of a cell.
	Last Hold = iota
	// First keeps the chronologically first sample of a cell.
	First
)

func (h Hold) String() string {
	if h == First {
		return "first"
	}
	return "last"
}

// ParseHold accepts "last" or "first".
func ParseHold(s string) (Hold, error) {
	switch s {
	case "last":
		return Last, nil
	case "first":
		return First, nil
	}
	return 0, fmt.Errorf("unknown hold policy %q", s)
}

// Fill selects how empty cells are filled.
type Fill uint8

const (
	// Forward carries the previous cell's value into empty cells.
	Forward Fill = iota
	// Backward takes the value of the next observed cell; cells after the
	// last observation still carry it forward.
	Backward
)

func (f Fill) String() string {
	if f == Backward {
		return "backward"
	}
	return "forward"
}

// ParseFill accepts "forward" or "backward".
func ParseFill(s string) (Fill, error) {
	switch s {
	case "forward", "ffill":
		return Forward, nil
	case "backward", "bfill":
		return Backward, nil
	}
	return 0, fmt.Errorf("unknown fill direction %q", s)
}

// Policy combines the within-cell and between-cell rules.
type Policy struct {
	Hold Hold
	Fill Fill
}

// Sample is one observation at a point in time.
type Sample[T any] struct {
	Time  int64
	Value T
}

// Resample maps time-ordered samples onto the session grid.
//
// The output always has session.Len() cells. With Forward fill, samples before
// the session act as a carry-in for the cells preceding the first in-session
// sample; without a carry-in those cells take the first in-session sample.
// Backward fill seeds leading cells from the first in-session sample and uses
// the carry-in only when the session has no sample at all. Samples at or after
// the session end are ignored. Without any usable sample it returns
// model.ErrNoData.
func Resample[T any](samples []Sample[T], session model.Session, p Policy) ([]T, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	n := session.Len()
	out := make([]T, n)
	filled := make([]bool, n)

	var carry T
	hasCarry := false
	first, last := -1, -1

	for i, s := range samples {
		if i > 0 && s.Time < samples[i-1].Time {
			return nil, &model.IntegrityError{Index: i, Reason: "samples out of time order"}
		}
		if s.Time < session.Start {
			carry, hasCarry = s.Value, true
			continue
		}
		if s.Time >= session.End {
			break
		}

		cell := session.Index(s.Time)
		if filled[cell] && p.Hold == First {
			continue
		}
		out[cell] = s.Value
		filled[cell] = true
		if first < 0 {
			first = cell
		}
		last = cell
	}

	if first < 0 {
		if !hasCarry {
			return nil, fmt.Errorf("resample: no samples in session: %w", model.ErrNoData)
		}
		for i := range out {
			out[i] = carry
		}
		return out, nil
	}

	if p.Fill == Backward {
		next := out[last]
		for i := last - 1; i >= 0; i-- {
			if filled[i] {
				next = out[i]
			} else {
				out[i] = next
			}
		}
	} else {
		seed := out[first]
		if hasCarry {
			seed = carry
		}
		for i := 0; i < first; i++ {
			out[i] = seed
		}
		for i := first + 1; i <= last; i++ {
			if !filled[i] {
				out[i] = out[i-1]
			}
		}
	}
	for i := last + 1; i < n; i++ {
		out[i] = out[last]
	}

	return out, nil
}
