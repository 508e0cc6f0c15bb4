package mathutil

import "math"

// IntMin returns the smaller of two ints.
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IntClamp limits v to [lo, hi]. When lo > hi the range is empty and lo wins.
func IntClamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// FloorInt floors a float to an int.
func FloorInt(v float64) int {
	return int(math.Floor(v))
}

// CeilInt rounds a float up to an int.
func CeilInt(v float64) int {
	return int(math.Ceil(v))
}

// Clamp limits v to [lo, hi]. NaN collapses to lo and an inverted range
// returns lo, so callers never see a value outside the lower bound.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || lo > hi {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
