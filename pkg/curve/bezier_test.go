package curve

import (
	"math"
	"testing"
)

// bezierTestPoints is a gently eased segment with monotonic time projection.
func bezierTestPoints() []Point {
	return []Point{
		{Time: 0, Value: 0},
		{Time: 0.33, Value: 0},
		{Time: 0.66, Value: 1},
		{Time: 1, Value: 1},
	}
}

// TestBezierBoundaries tests that the time-accurate evaluators return the
// stored endpoint values at the segment boundaries.
func TestBezierBoundaries(t *testing.T) {
	points := bezierTestPoints()

	tests := []struct {
		name     string
		evaluate Evaluator
		tol      float64
	}{
		{"Restricted", BezierEvaluate, 1e-12},
		{"Cardano", BezierEvaluateCardano, 1e-9},
		// The bisection stops within 0.01 in the time domain; its value
		// error at the boundary is bounded by the local slope.
		{"BinarySearch", BezierEvaluateBinarySearch, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evaluate(points, 0); math.Abs(got-0) > tt.tol {
				t.Errorf("at start: expected 0, got %v", got)
			}
			if got := tt.evaluate(points, 1); math.Abs(got-1) > tt.tol {
				t.Errorf("at end: expected 1, got %v", got)
			}
		})
	}
}

// TestBezierCardanoAgainstBinarySearch tests that the closed-form solve and
// the bisection reference agree within the bisection's stated time-domain
// tolerance across the whole segment.
func TestBezierCardanoAgainstBinarySearch(t *testing.T) {
	curves := [][]Point{
		bezierTestPoints(),
		{{0, 0.5}, {0.1, 0.9}, {0.9, 0.1}, {1, 0.5}},
		{{2, -1}, {2.5, 3}, {3.5, -3}, {4, 1}},
	}

	const steps = 50
	const timeTolerance = 0.01 // the bisection's stated stopping tolerance

	for ci, points := range curves {
		span := points[3].Time - points[0].Time

		// A 0.01 time-domain error translates to a value error bounded by
		// the curve's steepest local slope.
		samples := make([]float64, steps+1)
		maxSlope := 0.0
		for step := 0; step <= steps; step++ {
			samples[step] = BezierEvaluateCardano(points, points[0].Time+span*float64(step)/steps)
			if step > 0 {
				slope := math.Abs(samples[step]-samples[step-1]) / (span / steps)
				if slope > maxSlope {
					maxSlope = slope
				}
			}
		}
		tolerance := timeTolerance*maxSlope + 1e-3

		for step := 0; step <= steps; step++ {
			time := points[0].Time + span*float64(step)/steps
			binary := BezierEvaluateBinarySearch(points, time)
			if diff := math.Abs(samples[step] - binary); diff > tolerance {
				t.Fatalf("curve %d at t=%.3f: cardano=%v, binary=%v (diff %v > %v)",
					ci, time, samples[step], binary, diff, tolerance)
			}
		}
	}
}

// TestBezierCardanoMonotonicTime tests that the recovered curve parameter
// tracks the query time monotonically (the value curve here is monotonic, so
// the evaluated values must be non-decreasing).
func TestBezierCardanoMonotonicTime(t *testing.T) {
	points := bezierTestPoints()

	prev := math.Inf(-1)
	for step := 0; step <= 100; step++ {
		time := float64(step) / 100
		v := BezierEvaluateCardano(points, time)
		if v < prev-1e-9 {
			t.Fatalf("value decreased at t=%.3f: %v < %v", time, v, prev)
		}
		prev = v
	}
}

// TestBezierRestrictedMatchesCardanoOnUniformControls tests that with evenly
// spaced control point times the cheap linear-parameter evaluation agrees
// with the closed-form solve: the time projection is the identity, so both
// must recover the same parameter.
func TestBezierRestrictedMatchesCardanoOnUniformControls(t *testing.T) {
	points := []Point{
		{Time: 0, Value: 0},
		{Time: 1.0 / 3.0, Value: 0.2},
		{Time: 2.0 / 3.0, Value: 0.9},
		{Time: 1, Value: 0.5},
	}

	for step := 0; step <= 20; step++ {
		time := float64(step) / 20
		restricted := BezierEvaluate(points, time)
		cardano := BezierEvaluateCardano(points, time)
		if math.Abs(restricted-cardano) > 1e-6 {
			t.Fatalf("at t=%.3f: restricted=%v, cardano=%v", time, restricted, cardano)
		}
	}
}

// TestCardanoDegenerateCubic tests the quadratic/linear degradation when the
// leading cubic coefficient vanishes (evenly spaced control times).
func TestCardanoDegenerateCubic(t *testing.T) {
	// cx2-3cx2+3cx1-x1 = 0 for these times: the solver must fall back to
	// the quadratic path without dividing by ~0.
	points := []Point{
		{Time: 0, Value: 1},
		{Time: 1.0 / 3.0, Value: 1},
		{Time: 2.0 / 3.0, Value: 3},
		{Time: 1, Value: 3},
	}

	mid := BezierEvaluateCardano(points, 0.5)
	if math.Abs(mid-2) > 1e-6 {
		t.Errorf("expected midpoint value 2, got %v", mid)
	}
}
