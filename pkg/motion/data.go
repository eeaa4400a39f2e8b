// Package motion implements the curve evaluation and parameter-blending
// engine for time-stamped motion clips. A parsed clip is flattened into a
// MotionData store; a Motion wraps the store with playback configuration and
// performs the per-frame blending pass that writes sampled curve values into
// a model, honoring fade weights, procedural effect overlays (eye blink, lip
// sync) and the loop/completion state machine.
package motion

import (
	"github.com/gonewx/motion/pkg/curve"
)

// CurveTarget selects what a curve drives. The engine relies on curves being
// grouped contiguously in this order within a motion.
type CurveTarget int

const (
	// TargetModel drives a reserved model channel ("Opacity", "EyeBlink",
	// "LipSync").
	TargetModel CurveTarget = iota

	// TargetParameter drives a named model parameter.
	TargetParameter

	// TargetPartOpacity drives a named part's opacity.
	TargetPartOpacity
)

// String returns the curve target name (used for logging and diagnostics).
func (t CurveTarget) String() string {
	switch t {
	case TargetModel:
		return "Model"
	case TargetParameter:
		return "Parameter"
	case TargetPartOpacity:
		return "PartOpacity"
	default:
		return "Unknown"
	}
}

// Reserved ids of model-target curves.
const (
	// IdOpacity is the model opacity channel, written without fade blending.
	IdOpacity = "Opacity"

	// IdEyeBlink is the eye-blink overlay channel. Its sampled value
	// multiplies every configured eye-blink target parameter.
	IdEyeBlink = "EyeBlink"

	// IdLipSync is the lip-sync overlay channel. Its sampled value is added
	// to every configured lip-sync target parameter.
	IdLipSync = "LipSync"
)

// MotionCurve is one animated channel of a flattened motion.
type MotionCurve struct {
	// Target selects what the curve drives.
	Target CurveTarget

	// Id is the parameter/part identifier, or a reserved model channel name.
	Id string

	// BaseSegmentIndex and SegmentCount locate the curve's contiguous slice
	// in the motion's segment list.
	BaseSegmentIndex int
	SegmentCount     int

	// FadeInTime and FadeOutTime override the motion-level fades for this
	// curve, in seconds. A negative value means no override (use the global
	// fade weight of the invocation); 0 means no fade at all.
	FadeInTime  float64
	FadeOutTime float64
}

// HasFadeOverride reports whether the curve declares its own fade times
// instead of following the invocation's global fade weight.
func (c *MotionCurve) HasFadeOverride() bool {
	return c.FadeInTime >= 0 || c.FadeOutTime >= 0
}

// MotionSegment is one interpolation piece of a curve.
type MotionSegment struct {
	// Type is the interpolation algorithm of the segment.
	Type curve.SegmentType

	// BasePointIndex is the index of the segment's first control point in
	// the motion's point list. Adjacent segments share their boundary point.
	BasePointIndex int

	// Evaluate is the evaluator bound at parse time. For bezier segments it
	// is one of the three bezier strategies, selected by the asset's
	// restricted-beziers flag and the parse options.
	Evaluate curve.Evaluator
}

// MotionEvent is one timed user event of a motion.
type MotionEvent struct {
	// FireTime is the event time in seconds, within [0, Duration].
	FireTime float64

	// Value is the opaque payload returned to the caller when fired.
	Value string
}

// MotionData is the flattened, random-access representation of one parsed
// motion clip. It is immutable after Parse and may be shared read-only by
// any number of concurrently playing Motion instances.
type MotionData struct {
	// Duration is the clip length in seconds.
	Duration float64

	// Fps is the authored frame rate.
	Fps float64

	// Loop reports whether the clip was authored for looped playback.
	Loop bool

	// FadeInTime and FadeOutTime are the asset-level default fades in
	// seconds; negative when the file does not specify them.
	FadeInTime  float64
	FadeOutTime float64

	// CurveCount is the number of curves. Curves are grouped contiguously:
	// all Model curves first, then Parameter, then PartOpacity.
	CurveCount int

	Curves   []MotionCurve
	Segments []MotionSegment
	Points   []curve.Point
	Events   []MotionEvent
}

// CurveAt returns the curve at index.
func (d *MotionData) CurveAt(index int) *MotionCurve {
	return &d.Curves[index]
}

// SegmentAt returns the segment at index.
func (d *MotionData) SegmentAt(index int) *MotionSegment {
	return &d.Segments[index]
}

// PointAt returns the control point at index.
func (d *MotionData) PointAt(index int) curve.Point {
	return d.Points[index]
}

// EventCount returns the number of user events.
func (d *MotionData) EventCount() int {
	return len(d.Events)
}

// EvaluateCurve samples the curve at index at the given time without loop
// correction. Past the curve's declared end the last stored value is held.
// This is the raw sampling contract for tools and editors.
func (d *MotionData) EvaluateCurve(index int, time float64) float64 {
	return d.evaluateCurve(&d.Curves[index], time, false, 0)
}
