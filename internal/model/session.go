package model

import (
	"errors"
	"fmt"
)

// Unit is the time resolution of a feed.
type Unit uint8

const (
	Millisecond Unit = iota
	Second
)

func (u Unit) String() string {
	if u == Second {
		return "s"
	}
	return "ms"
}

// ParseUnit accepts "ms" or "s".
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "ms", "millisecond":
		return Millisecond, nil
	case "s", "second":
		return Second, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", s)
}

// Session is a uniform time grid [Start, End) with one cell per Step.
type Session struct {
	Start int64
	End   int64
	Step  int64
	Unit  Unit
}

// ITCHSession is 09:30-16:00 at millisecond resolution.
func ITCHSession() Session {
	return Session{Start: 34_200_000, End: 57_600_000, Step: 1, Unit: Millisecond}
}

// TAQSession is 09:40-15:50 at second resolution.
func TAQSession() Session {
	return Session{Start: 34_800, End: 57_000, Step: 1, Unit: Second}
}

// Len returns the number of grid cells.
func (s Session) Len() int {
	if s.End <= s.Start || s.Step <= 0 {
		return 0
	}
	return int((s.End - s.Start + s.Step - 1) / s.Step)
}

// Contains reports whether t falls inside [Start, End).
func (s Session) Contains(t int64) bool {
	return t >= s.Start && t < s.End
}

// Index returns the cell of t. Only meaningful when Contains(t).
func (s Session) Index(t int64) int {
	return int((t - s.Start) / s.Step)
}

// Validate checks the grid bounds.
func (s Session) Validate() error {
	if s.Step <= 0 {
		return errors.New("session step must be positive")
	}
	if s.End <= s.Start {
		return fmt.Errorf("session end (%d) must be after start (%d)", s.End, s.Start)
	}
	return nil
}
