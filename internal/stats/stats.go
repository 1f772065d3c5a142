// Package stats holds the descriptive statistics used to compare runs.
// All functions treat an empty input as zero rather than failing.
package stats

import (
	"math"
	"sort"
)

func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopulationStdDev divides by n, not n-1.
func PopulationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// Pearson returns the correlation coefficient of x and y, computed from raw
// sums. It returns 0 when the lengths differ, when either input is empty, or
// when either has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n == 0 || n != len(y) || constant(x) || constant(y) {
		return 0
	}

	var sx, sy, sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sy += y[i]
		sxy += x[i] * y[i]
		sxx += x[i] * x[i]
		syy += y[i] * y[i]
	}

	fn := float64(n)
	vx := fn*sxx - sx*sx
	vy := fn*syy - sy*sy
	if vx <= 0 || vy <= 0 {
		return 0
	}

	r := (fn*sxy - sx*sy) / math.Sqrt(vx*vy)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}

// constant reports whether every element equals the first. The raw-sum
// variance of a constant vector need not round to zero.
func constant(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}

// OLSSlope fits y against the index 0..n-1 and returns the slope.
func OLSSlope(y []float64) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}

	var si, sy, siy, sii float64
	for i, v := range y {
		fi := float64(i)
		si += fi
		sy += v
		siy += fi * v
		sii += fi * fi
	}

	fn := float64(n)
	den := fn*sii - si*si
	if den == 0 {
		return 0
	}
	return (fn*siy - si*sy) / den
}

// Quantile interpolates linearly between closest ranks of a sorted copy of
// xs (type 7). q is clamped to [0,1].
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	q = math.Max(0, math.Min(1, q))
	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Quartiles returns Q1 and Q3.
func Quartiles(xs []float64) (q1, q3 float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return quantileSorted(sorted, 0.25), quantileSorted(sorted, 0.75)
}

// IQRBounds returns the fences [Q1-k·IQR, Q3+k·IQR].
func IQRBounds(xs []float64, k float64) (lower, upper float64) {
	q1, q3 := Quartiles(xs)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// MinMaxIndex returns the indices of the first minimum and first maximum.
// Both are -1 for an empty input.
func MinMaxIndex(xs []float64) (minIdx, maxIdx int) {
	if len(xs) == 0 {
		return -1, -1
	}
	for i, x := range xs {
		if x < xs[minIdx] {
			minIdx = i
		}
		if x > xs[maxIdx] {
			maxIdx = i
		}
	}
	return minIdx, maxIdx
}

// CoefficientOfVariation is stddev/mean, or 0 when the mean is 0.
func CoefficientOfVariation(xs []float64) float64 {
	m := Mean(xs)
	if m == 0 {
		return 0
	}
	return PopulationStdDev(xs) / m
}
