package response

import (
	"fmt"
	"sync"
)

// Curve holds the response numerator and support per lag; index i is τ = i+1.
type Curve struct {
	Num     []float64
	Support []int64
}

// NewCurve allocates a zero curve for lags 1..n.
func NewCurve(n int) Curve {
	return Curve{Num: make([]float64, n), Support: make([]int64, n)}
}

// Len returns the number of lags (or shifts) in the curve.
func (c Curve) Len() int {
	return len(c.Num)
}

// Values divides the numerator by the support. Lags without support are 0.
func (c Curve) Values() []float64 {
	out := make([]float64, len(c.Num))
	for i, num := range c.Num {
		if c.Support[i] > 0 {
			out[i] = num / float64(c.Support[i])
		}
	}
	return out
}

// Add sums another curve into c. Curves must have equal length; a zero Curve
// takes the shape of the first curve added.
func (c *Curve) Add(o Curve) error {
	if c.Num == nil {
		*c = NewCurve(o.Len())
	}
	if c.Len() != o.Len() {
		return fmt.Errorf("add curve: length %d != %d", o.Len(), c.Len())
	}
	for i := range c.Num {
		c.Num[i] += o.Num[i]
		c.Support[i] += o.Support[i]
	}
	return nil
}

// Clone returns a deep copy.
func (c Curve) Clone() Curve {
	return Curve{
		Num:     append([]float64(nil), c.Num...),
		Support: append([]int64(nil), c.Support...),
	}
}

// Accumulator sums daily curves from concurrent workers. Daily numerators and
// supports are summed independently and divided only once by Values.
type Accumulator struct {
	mu    sync.Mutex
	curve Curve
	days  int
}

// Add sums one day into the total.
func (a *Accumulator) Add(c Curve) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.curve.Add(c); err != nil {
		return err
	}
	a.days++
	return nil
}

// Curve returns a copy of the running total.
func (a *Accumulator) Curve() Curve {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.curve.Clone()
}

// Days returns how many curves were added.
func (a *Accumulator) Days() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.days
}
