package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownwindDeg(t *testing.T) {
	tests := []struct {
		name     string
		fromDeg  float64
		expected float64
	}{
		{"north wind", 0, 180},
		{"east wind", 90, 270},
		{"south wind", 180, 0},
		{"west wind", 270, 90},
		{"wraps past 360", 350, 170},
		{"fractional bearing", 12.5, 192.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DownwindDeg(tt.fromDeg), 1e-9)
		})
	}
}

func TestDownwindDeg_AlwaysNormalized(t *testing.T) {
	for deg := 0.0; deg < 360; deg += 7.3 {
		got := DownwindDeg(deg)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
		assert.InDelta(t, math.Mod(deg+180, 360), got, 1e-9)
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		name     string
		deg      float64
		expected float64
	}{
		{"already normalized", 45, 45},
		{"exactly 360", 360, 0},
		{"over 360", 450, 90},
		{"negative", -90, 270},
		{"large negative", -720, 0},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeDeg(tt.deg), 1e-9)
		})
	}
}

func TestRotatePoint_PreservesDistance(t *testing.T) {
	origin := ScreenPoint{X: 120, Y: 340}
	p := ScreenPoint{X: 200, Y: 280}
	want := math.Hypot(p.X-origin.X, p.Y-origin.Y)

	for _, deg := range []float64{0, 14, 90, 123.4, 180, 270, -45, 359.9, 720} {
		got := RotatePoint(origin, p, deg)
		dist := math.Hypot(got.X-origin.X, got.Y-origin.Y)
		assert.InDelta(t, want, dist, 1e-9, "rotation by %v must be an isometry", deg)
	}
}

func TestRotatePoint_Quarters(t *testing.T) {
	origin := ScreenPoint{X: 0, Y: 0}
	p := ScreenPoint{X: 10, Y: 0}

	// Clockwise-positive in screen space: +90 sends +x to +y (down).
	down := RotatePoint(origin, p, 90)
	assert.InDelta(t, 0, down.X, 1e-9)
	assert.InDelta(t, 10, down.Y, 1e-9)

	up := RotatePoint(origin, p, -90)
	assert.InDelta(t, 0, up.X, 1e-9)
	assert.InDelta(t, -10, up.Y, 1e-9)

	back := RotatePoint(origin, p, 180)
	assert.InDelta(t, -10, back.X, 1e-9)
	assert.InDelta(t, 0, back.Y, 1e-9)
}

func TestMovePoint(t *testing.T) {
	start := GeoPoint{Lat: 27.49, Lon: -82.45}

	t.Run("north displacement changes only latitude", func(t *testing.T) {
		moved := MovePoint(start, 0, 1113.20)
		assert.InDelta(t, start.Lat+0.01, moved.Lat, 1e-9)
		assert.InDelta(t, start.Lon, moved.Lon, 1e-9)
	})

	t.Run("east displacement changes only longitude", func(t *testing.T) {
		moved := MovePoint(start, 90, 500)
		assert.InDelta(t, start.Lat, moved.Lat, 1e-9)
		assert.InDelta(t, start.Lon+500/MetersPerDegLon(start.Lat), moved.Lon, 1e-9)
	})

	t.Run("zero distance is identity", func(t *testing.T) {
		assert.Equal(t, start, MovePoint(start, 123, 0))
	})

	t.Run("opposite bearings cancel", func(t *testing.T) {
		out := MovePoint(MovePoint(start, 45, 800), 225, 800)
		assert.InDelta(t, start.Lat, out.Lat, 1e-9)
		// Longitude does not cancel exactly: the meters-per-degree
		// basis shifts with latitude between the two hops.
		assert.InDelta(t, start.Lon, out.Lon, 1e-6)
	})
}

func TestMetersPerDegLon(t *testing.T) {
	assert.InDelta(t, MetersPerDegLat, MetersPerDegLon(0), 1e-6)
	assert.InDelta(t, MetersPerDegLat*0.5, MetersPerDegLon(60), 1e-6)
	assert.InDelta(t, MetersPerDegLon(27.49), MetersPerDegLon(-27.49), 1e-9)
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 22.36936, MPHFromMPS(10), 1e-6)
	assert.InDelta(t, 10, MPSFromMPH(MPHFromMPS(10)), 1e-9)
	assert.Equal(t, 0.0, MPHFromMPS(0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, clamp(-3, 5, 100))
	assert.Equal(t, 100.0, clamp(250, 5, 100))
	assert.Equal(t, 42.0, clamp(42, 5, 100))
}
