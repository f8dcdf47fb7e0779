package impact

import "math"

// SolverOptions bounds the radius search used to invert overpressure curves.
type SolverOptions struct {
	MaxIterations     int
	RelativeTolerance float64
}

// Bound reports whether a solved radius was pinned to one end of its bracket.
type Bound string

const (
	BoundNone  Bound = ""
	BoundLower Bound = "lower"
	BoundUpper Bound = "upper"
)

// Solution is the result of inverting a monotonically decreasing function.
type Solution struct {
	Radius     float64
	Iterations int
	Bound      Bound
}

// Invert finds r in [lo, hi] with f(r) = target for f decreasing in r.
//
// When target lies above f(lo) the result is lo, and when it lies below
// f(hi) the result is hi; Solution.Bound records which. A NaN target, a NaN
// at either end of the bracket, or a bracket that is not decreasing yields a
// NaN radius.
func (o SolverOptions) Invert(f func(float64) float64, target, lo, hi float64) Solution {
	nan := Solution{Radius: math.NaN()}
	if math.IsNaN(target) || !(lo < hi) {
		return nan
	}
	flo, fhi := f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo < fhi {
		return nan
	}
	if target >= flo {
		return Solution{Radius: lo, Bound: BoundLower}
	}
	if target <= fhi {
		return Solution{Radius: hi, Bound: BoundUpper}
	}

	maxIter := o.MaxIterations
	if maxIter <= 0 {
		maxIter = 200
	}
	tol := o.RelativeTolerance
	if !(tol > 0) {
		tol = 1e-6
	}

	var i int
	for i = 0; i < maxIter; i++ {
		mid := lo + (hi-lo)/2
		if f(mid) > target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo <= tol*hi {
			i++
			break
		}
	}
	return Solution{Radius: lo + (hi-lo)/2, Iterations: i}
}
