package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name       string
		iv         Interval
		resolution float64
		length     int
		wantLo     int
		wantHi     int
	}{
		{"whole seconds", Interval{Offset: 1, Duration: 2}, 1000, 10000, 1000, 3000},
		{"fractional offset", Interval{Offset: 0.25, Duration: 0.5}, 1000, 10000, 250, 750},
		{"half rounds to even low", Interval{Offset: 0.0005, Duration: 0.001}, 1000, 10000, 0, 2},
		{"half rounds to even high", Interval{Offset: 0.0015, Duration: 0.001}, 1000, 10000, 2, 2},
		{"clamped to length", Interval{Offset: 9, Duration: 5}, 1000, 10000, 9000, 10000},
		{"zero duration", Interval{Offset: 3, Duration: 0}, 1000, 10000, 3000, 3000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := Bounds(tt.iv, tt.resolution, tt.length)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}

func TestRasterizeUnionSemantics(t *testing.T) {
	// Two overlapping intervals must OR together, not add.
	arr := Rasterize([]Interval{
		{Offset: 0, Duration: 2},
		{Offset: 1, Duration: 2},
	}, 10, 50)

	assert.Equal(t, 30, Count(arr))
	for i := 0; i < 30; i++ {
		assert.Equal(t, uint8(1), arr[i])
	}
	for i := 30; i < 50; i++ {
		assert.Equal(t, uint8(0), arr[i])
	}
}

func TestAny(t *testing.T) {
	arr := Rasterize([]Interval{{Offset: 2, Duration: 1}}, 10, 100)

	assert.True(t, Any(arr, 20, 30))
	assert.True(t, Any(arr, 29, 40))
	assert.False(t, Any(arr, 0, 20))
	assert.False(t, Any(arr, 30, 100))
	// Out-of-range windows clamp instead of panicking.
	assert.False(t, Any(arr, 90, 200))
}

func TestIntersectionAndUnion(t *testing.T) {
	a := Rasterize([]Interval{{Offset: 0, Duration: 5}}, 10, 100)
	b := Rasterize([]Interval{{Offset: 3, Duration: 5}}, 10, 100)

	assert.Equal(t, 20, Intersection(a, b))
	assert.Equal(t, 80, Union(a, b))

	// Identical occupancy: intersection equals union.
	assert.Equal(t, Intersection(a, a), Union(a, a))
}

func TestRasterizeDisjoint(t *testing.T) {
	a := Rasterize([]Interval{{Offset: 0, Duration: 1}}, 100, 1000)
	b := Rasterize([]Interval{{Offset: 5, Duration: 1}}, 100, 1000)

	assert.Equal(t, 0, Intersection(a, b))
	assert.Equal(t, 200, Union(a, b))
}
