package response

import (
	"fmt"
	"math"

	"github.com/rickgao/impact-response/internal/model"
)

// Estimate computes R(τ) for τ = 1..opts.TauMax. The two series are aligned
// at index 0 and truncated to the shorter one. Every price must be finite and
// strictly positive.
func Estimate(price []float64, sign []int8, opts Options) (Curve, error) {
	if err := opts.Validate(); err != nil {
		return Curve{}, err
	}
	n := min(len(price), len(sign))
	price, sign = price[:n], sign[:n]
	if err := checkPrices(price); err != nil {
		return Curve{}, err
	}

	nonzero := make([]int, 0, n/4)
	for t, s := range sign {
		if s != 0 {
			nonzero = append(nonzero, t)
		}
	}

	ret := returnFunc(opts.Returns)
	c := NewCurve(opts.TauMax)
	for tau := 1; tau <= opts.TauMax; tau++ {
		var num float64
		var count int64
		for _, t := range nonzero {
			if t+tau >= n {
				break
			}
			num += ret(price[t], price[t+tau]) * float64(sign[t])
			count++
		}
		c.Num[tau-1] = num
		c.Support[tau-1] = count
		if opts.Support == AllSigns {
			c.Support[tau-1] = int64(len(nonzero))
		}
	}
	return c, nil
}

// ShiftCurve holds the response at a fixed lag for each shift between the
// series. Index i of the embedded Curve corresponds to Shifts[i].
type ShiftCurve struct {
	Tau    int
	Shifts []int
	Curve
}

// ShiftRange returns the shifts -10τ through 10τ-1.
func ShiftRange(tau int) []int {
	shifts := make([]int, 0, 20*tau)
	for s := -10 * tau; s < 10*tau; s++ {
		shifts = append(shifts, s)
	}
	return shifts
}

// EstimateShift computes the lag-tau response after shifting the series
// against each other. A positive shift drops the first s signs and the last s
// prices; a negative shift drops the first |s| prices and the last |s| signs.
func EstimateShift(price []float64, sign []int8, tau int, shifts []int, opts Options) (ShiftCurve, error) {
	if tau < 1 {
		return ShiftCurve{}, fmt.Errorf("tau must be >= 1, got %d", tau)
	}
	n := min(len(price), len(sign))
	price, sign = price[:n], sign[:n]
	if err := checkPrices(price); err != nil {
		return ShiftCurve{}, err
	}

	ret := returnFunc(opts.Returns)
	sc := ShiftCurve{
		Tau:    tau,
		Shifts: append([]int(nil), shifts...),
		Curve:  NewCurve(len(shifts)),
	}
	for i, s := range shifts {
		p, g := shiftSeries(price, sign, s)
		sc.Num[i], sc.Support[i] = atLag(p, g, tau, ret, opts.Support)
	}
	return sc, nil
}

func shiftSeries(price []float64, sign []int8, s int) ([]float64, []int8) {
	n := len(price)
	if s >= n || -s >= n {
		return nil, nil
	}
	switch {
	case s > 0:
		return price[:n-s], sign[s:]
	case s < 0:
		return price[-s:], sign[:n+s]
	}
	return price, sign
}

func atLag(price []float64, sign []int8, tau int, ret func(a, b float64) float64, policy SupportPolicy) (float64, int64) {
	n := len(price)
	var num float64
	var count, all int64
	for t, s := range sign {
		if s == 0 {
			continue
		}
		all++
		if t+tau >= n {
			continue
		}
		num += ret(price[t], price[t+tau]) * float64(s)
		count++
	}
	if policy == AllSigns {
		return num, all
	}
	return num, count
}

func returnFunc(k ReturnKind) func(from, to float64) float64 {
	if k == Log {
		return func(from, to float64) float64 { return math.Log(to / from) }
	}
	return func(from, to float64) float64 { return (to - from) / from }
}

func checkPrices(price []float64) error {
	for i, p := range price {
		if !(p > 0) || math.IsInf(p, 0) {
			return &model.IntegrityError{Index: i, Reason: fmt.Sprintf("price %v is not positive", p)}
		}
	}
	return nil
}
