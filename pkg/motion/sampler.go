package motion

import (
	"github.com/gonewx/motion/pkg/curve"
)

// evaluateCurve samples one curve at an absolute time. It scans the curve's
// segments in order for the first segment whose end control point lies past
// the query time and delegates to that segment's bound evaluator.
//
// When no segment qualifies (the query time is at or past the curve's
// declared end) and loop correction is requested with time still inside the
// loop window, a synthetic join between the curve's last stored point and
// its first point placed at loopEndTime is evaluated instead, producing a
// continuous seam even when the authored curve is not perfectly periodic.
// Otherwise the last stored value is held.
func (d *MotionData) evaluateCurve(c *MotionCurve, time float64, applyLoopCorrection bool, loopEndTime float64) float64 {
	target := -1
	totalSegments := c.BaseSegmentIndex + c.SegmentCount
	pointPosition := 0

	for i := c.BaseSegmentIndex; i < totalSegments; i++ {
		seg := &d.Segments[i]
		// End control point of the segment: 4th of 4 for bezier, else 2nd.
		pointPosition = seg.BasePointIndex + seg.Type.PointCount() - 1
		if d.Points[pointPosition].Time > time {
			target = i
			break
		}
	}

	if target == -1 {
		if applyLoopCorrection && time < loopEndTime {
			return d.evaluateEndPointCorrection(c, time, loopEndTime, pointPosition)
		}
		// Past the end of a non-looping curve the last value is held.
		return d.Points[pointPosition].Value
	}

	seg := &d.Segments[target]
	return seg.Evaluate(d.Points[seg.BasePointIndex:], time)
}

// evaluateEndPointCorrection joins the end of one loop iteration to the
// start of the next: a two-point blend between the curve's last stored point
// at its own time and the curve's first value placed at loopEndTime,
// evaluated with the final segment's interpolation type. Bezier degrades to
// linear for this synthetic span.
func (d *MotionData) evaluateEndPointCorrection(c *MotionCurve, time, loopEndTime float64, lastPointIndex int) float64 {
	firstPoint := d.Points[d.Segments[c.BaseSegmentIndex].BasePointIndex]

	state := [2]curve.Point{
		d.Points[lastPointIndex],
		{Time: loopEndTime, Value: firstPoint.Value},
	}

	switch d.Segments[c.BaseSegmentIndex+c.SegmentCount-1].Type {
	case curve.SegmentStepped:
		return curve.SteppedEvaluate(state[:], time)
	case curve.SegmentInverseStepped:
		return curve.InverseSteppedEvaluate(state[:], time)
	default:
		return curve.LinearEvaluate(state[:], time)
	}
}
