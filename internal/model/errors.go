package model

import (
	"errors"
	"fmt"
)

// ErrNoData marks a stock-day without qualifying events. Callers skip the day.
var ErrNoData = errors.New("no data")

// ErrNotComputed is returned when a cross response is requested for a stock against itself.
var ErrNotComputed = errors.New("not computed")

// IntegrityError reports input that would desynchronize the reconstruction,
// such as an execution referencing an order that was never added.
type IntegrityError struct {
	OrderID uint64
	Index   int // Position in the input, -1 if not applicable
	Reason  string
}

func (e *IntegrityError) Error() string {
	if e.OrderID != 0 {
		return fmt.Sprintf("data integrity: %s (order %d at %d)", e.Reason, e.OrderID, e.Index)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("data integrity: %s (at %d)", e.Reason, e.Index)
	}
	return "data integrity: " + e.Reason
}

// IsIntegrity reports whether err wraps an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
