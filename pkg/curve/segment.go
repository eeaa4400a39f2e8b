// Package curve provides the interpolation primitives used by motion curves.
// A motion curve is a sequence of segments, each covering a span of the
// timeline with one interpolation algorithm. Segments operate on small
// fixed-size windows of control points and are evaluated as pure functions
// of (control points, time).
package curve

// Point is a single control point on a curve timeline.
type Point struct {
	// Time is the position of the point on the timeline, in seconds.
	Time float64

	// Value is the curve value at this point.
	Value float64
}

// SegmentType identifies the interpolation algorithm of one curve segment.
// The numeric values match the segment type codes used by the motion file
// format and must not be reordered.
type SegmentType int

const (
	// SegmentLinear interpolates linearly between two points.
	SegmentLinear SegmentType = 0

	// SegmentBezier interpolates a cubic bezier over four control points.
	SegmentBezier SegmentType = 1

	// SegmentStepped holds the earlier point's value until the segment ends.
	SegmentStepped SegmentType = 2

	// SegmentInverseStepped jumps to the later point's value immediately.
	SegmentInverseStepped SegmentType = 3
)

// String returns the segment type name (used for logging and diagnostics).
func (t SegmentType) String() string {
	switch t {
	case SegmentLinear:
		return "Linear"
	case SegmentBezier:
		return "Bezier"
	case SegmentStepped:
		return "Stepped"
	case SegmentInverseStepped:
		return "InverseStepped"
	default:
		return "Unknown"
	}
}

// PointCount returns the number of control points a segment of this type
// consumes. Adjacent segments share their boundary point, so a segment
// contributes PointCount()-1 new points after the first segment of a curve.
func (t SegmentType) PointCount() int {
	if t == SegmentBezier {
		return 4
	}
	return 2
}

// Evaluator is a pure segment evaluation function. It receives the segment's
// control point window (2 points, or 4 for bezier) and an absolute time, and
// returns the interpolated value. The concrete evaluator for each segment is
// chosen once at parse time.
type Evaluator func(points []Point, time float64) float64

// LerpPoints linearly interpolates between two control points in both the
// time and value dimensions. t is the normalized blend factor.
func LerpPoints(a, b Point, t float64) Point {
	return Point{
		Time:  a.Time + (b.Time-a.Time)*t,
		Value: a.Value + (b.Value-a.Value)*t,
	}
}

// LinearEvaluate interpolates linearly between points[0] and points[1].
// The blend factor is clamped at the lower bound only: evaluation past the
// segment's end deliberately extrapolates, which the end-point loop
// correction path relies on.
func LinearEvaluate(points []Point, time float64) float64 {
	t := (time - points[0].Time) / (points[1].Time - points[0].Time)
	if t < 0 {
		t = 0
	}
	return points[0].Value + (points[1].Value-points[0].Value)*t
}

// SteppedEvaluate holds the earlier point's value for the whole segment.
func SteppedEvaluate(points []Point, time float64) float64 {
	return points[0].Value
}

// InverseSteppedEvaluate jumps to the later point's value for the whole
// segment.
func InverseSteppedEvaluate(points []Point, time float64) float64 {
	return points[1].Value
}
