// Package raster converts annotation intervals into dense binary occupancy
// arrays. Both the chunker and the IoU engine discretize time through this
// package so that boundary rounding behaves identically everywhere.
package raster

import "math"

// Interval is a span of audio in seconds.
type Interval struct {
	Offset   float64
	Duration float64
}

// Bounds maps an interval onto sample indices at the given resolution
// (samples per second). Boundary computation uses round-half-to-even, and
// the result is clamped to [0, length].
func Bounds(iv Interval, resolution float64, length int) (lo, hi int) {
	lo = int(math.RoundToEven(iv.Offset * resolution))
	hi = int(math.RoundToEven((iv.Offset + iv.Duration) * resolution))
	if lo < 0 {
		lo = 0
	}
	if hi > length {
		hi = length
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Rasterize unions a list of intervals into a binary occupancy array of the
// given length. Overlapping intervals set the same samples; values stay
// binary.
func Rasterize(intervals []Interval, resolution float64, length int) []uint8 {
	arr := make([]uint8, length)
	for _, iv := range intervals {
		Set(arr, iv, resolution)
	}
	return arr
}

// Set marks one interval on an existing occupancy array.
func Set(arr []uint8, iv Interval, resolution float64) {
	lo, hi := Bounds(iv, resolution, len(arr))
	for i := lo; i < hi; i++ {
		arr[i] = 1
	}
}

// Any reports whether any sample in [lo, hi) is occupied.
func Any(arr []uint8, lo, hi int) bool {
	if lo < 0 {
		lo = 0
	}
	if hi > len(arr) {
		hi = len(arr)
	}
	for i := lo; i < hi; i++ {
		if arr[i] == 1 {
			return true
		}
	}
	return false
}

// Intersection counts the samples occupied in both arrays.
func Intersection(a, b []uint8) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	count := 0
	for i := 0; i < n; i++ {
		if a[i] == 1 && b[i] == 1 {
			count++
		}
	}
	return count
}

// Union counts the samples occupied in either array.
func Union(a, b []uint8) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	count := 0
	for i := 0; i < n; i++ {
		if (i < len(a) && a[i] == 1) || (i < len(b) && b[i] == 1) {
			count++
		}
	}
	return count
}

// Count counts the occupied samples of one array.
func Count(arr []uint8) int {
	count := 0
	for _, v := range arr {
		if v == 1 {
			count++
		}
	}
	return count
}
