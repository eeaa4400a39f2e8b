package motion

import (
	"errors"
	"fmt"

	"github.com/gonewx/motion/internal/motionjson"
	"github.com/gonewx/motion/pkg/curve"
)

// ErrMalformedAsset is returned by Parse when a motion document is
// structurally invalid: unrecognized segment type codes, element counts
// inconsistent with the parsed streams, out-of-order curve groups, or
// missing required metadata. Parse fails fast and returns no partial data.
var ErrMalformedAsset = errors.New("malformed motion asset")

// BezierMode selects the evaluator bound to unrestricted bezier segments at
// parse time. Restricted assets (Meta.AreBeziersRestricted) always use the
// cheap linear-parameter evaluation, which is exact for them.
type BezierMode int

const (
	// BezierCardano solves the bezier time projection in closed form.
	// Time-accurate production default.
	BezierCardano BezierMode = iota

	// BezierBinarySearch refines the bezier parameter by bisection. Kept
	// for compatibility with assets authored against the legacy evaluator
	// and for debugging.
	BezierBinarySearch
)

// ParseOptions configures Parse. The zero value is the production default.
type ParseOptions struct {
	// BezierMode selects the unrestricted bezier evaluation strategy.
	BezierMode BezierMode
}

// Parse flattens a motion document into a MotionData store. Per-segment base
// point indices and per-curve base segment indices are resolved by running
// totals over the curve streams; each segment's evaluator is bound here so
// the sampler never branches on type at evaluation time.
func Parse(doc *motionjson.Document, opts ParseOptions) (*MotionData, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMalformedAsset)
	}
	if doc.Meta.Duration <= 0 || doc.Meta.Fps <= 0 {
		return nil, fmt.Errorf("%w: missing duration or fps metadata (duration=%v, fps=%v)",
			ErrMalformedAsset, doc.Meta.Duration, doc.Meta.Fps)
	}
	if len(doc.Curves) != doc.Meta.CurveCount {
		return nil, fmt.Errorf("%w: declared %d curves, found %d",
			ErrMalformedAsset, doc.Meta.CurveCount, len(doc.Curves))
	}
	if len(doc.UserData) != doc.Meta.UserDataCount {
		return nil, fmt.Errorf("%w: declared %d user data entries, found %d",
			ErrMalformedAsset, doc.Meta.UserDataCount, len(doc.UserData))
	}

	data := &MotionData{
		Duration:    doc.Meta.Duration,
		Fps:         doc.Meta.Fps,
		Loop:        doc.Meta.Loop,
		FadeInTime:  fadeOrUnset(doc.Meta.FadeInTime),
		FadeOutTime: fadeOrUnset(doc.Meta.FadeOutTime),
		CurveCount:  len(doc.Curves),
		Curves:      make([]MotionCurve, 0, len(doc.Curves)),
		Segments:    make([]MotionSegment, 0, doc.Meta.TotalSegmentCount),
		Points:      make([]curve.Point, 0, doc.Meta.TotalPointCount),
		Events:      make([]MotionEvent, 0, len(doc.UserData)),
	}

	bezierEvaluate := unrestrictedBezierEvaluator(opts.BezierMode)
	if doc.Meta.AreBeziersRestricted {
		bezierEvaluate = curve.BezierEvaluate
	}

	lastTarget := TargetModel
	for ci := range doc.Curves {
		src := &doc.Curves[ci]

		target, err := parseCurveTarget(src.Target)
		if err != nil {
			return nil, fmt.Errorf("curve %d (%s): %w", ci, src.Id, err)
		}
		// The blending pass scans each target group contiguously; an
		// interleaved file would silently skip curves.
		if target < lastTarget {
			return nil, fmt.Errorf("%w: curve %d (%s): %s group follows %s group",
				ErrMalformedAsset, ci, src.Id, target, lastTarget)
		}
		lastTarget = target

		mc := MotionCurve{
			Target:           target,
			Id:               src.Id,
			BaseSegmentIndex: len(data.Segments),
			FadeInTime:       fadeOrUnset(src.FadeInTime),
			FadeOutTime:      fadeOrUnset(src.FadeOutTime),
		}

		// The leading point plus at least one segment. A lone time/value
		// pair would leave the curve with nothing to evaluate.
		if len(src.Segments) < 5 {
			return nil, fmt.Errorf("%w: curve %d (%s): segment stream too short",
				ErrMalformedAsset, ci, src.Id)
		}

		// Leading time/value pair is the curve's first control point.
		data.Points = append(data.Points, curve.Point{
			Time:  src.Segments[0],
			Value: src.Segments[1],
		})

		for pos := 2; pos < len(src.Segments); {
			segType := curve.SegmentType(src.Segments[pos])
			seg := MotionSegment{
				Type: segType,
				// The new segment starts at the previous segment's end point.
				BasePointIndex: len(data.Points) - 1,
			}

			switch segType {
			case curve.SegmentLinear, curve.SegmentStepped, curve.SegmentInverseStepped:
				if pos+2 > len(src.Segments)-1 {
					return nil, fmt.Errorf("%w: curve %d (%s): truncated %s segment at offset %d",
						ErrMalformedAsset, ci, src.Id, segType, pos)
				}
				switch segType {
				case curve.SegmentLinear:
					seg.Evaluate = curve.LinearEvaluate
				case curve.SegmentStepped:
					seg.Evaluate = curve.SteppedEvaluate
				default:
					seg.Evaluate = curve.InverseSteppedEvaluate
				}
				data.Points = append(data.Points, curve.Point{
					Time:  src.Segments[pos+1],
					Value: src.Segments[pos+2],
				})
				pos += 3

			case curve.SegmentBezier:
				if pos+6 > len(src.Segments)-1 {
					return nil, fmt.Errorf("%w: curve %d (%s): truncated bezier segment at offset %d",
						ErrMalformedAsset, ci, src.Id, pos)
				}
				seg.Evaluate = bezierEvaluate
				for p := 0; p < 3; p++ {
					data.Points = append(data.Points, curve.Point{
						Time:  src.Segments[pos+1+2*p],
						Value: src.Segments[pos+2+2*p],
					})
				}
				pos += 7

			default:
				return nil, fmt.Errorf("%w: curve %d (%s): unknown segment type code %v at offset %d",
					ErrMalformedAsset, ci, src.Id, src.Segments[pos], pos)
			}

			data.Segments = append(data.Segments, seg)
			mc.SegmentCount++
		}

		data.Curves = append(data.Curves, mc)
	}

	if len(data.Segments) != doc.Meta.TotalSegmentCount {
		return nil, fmt.Errorf("%w: declared %d segments, parsed %d",
			ErrMalformedAsset, doc.Meta.TotalSegmentCount, len(data.Segments))
	}
	if len(data.Points) != doc.Meta.TotalPointCount {
		return nil, fmt.Errorf("%w: declared %d points, parsed %d",
			ErrMalformedAsset, doc.Meta.TotalPointCount, len(data.Points))
	}

	for _, ud := range doc.UserData {
		data.Events = append(data.Events, MotionEvent{
			FireTime: ud.Time,
			Value:    ud.Value,
		})
	}

	return data, nil
}

// parseCurveTarget maps a document target string to a CurveTarget.
func parseCurveTarget(target string) (CurveTarget, error) {
	switch target {
	case "Model":
		return TargetModel, nil
	case "Parameter":
		return TargetParameter, nil
	case "PartOpacity":
		return TargetPartOpacity, nil
	default:
		return TargetModel, fmt.Errorf("%w: unknown curve target '%s'", ErrMalformedAsset, target)
	}
}

// unrestrictedBezierEvaluator maps a BezierMode to its evaluator.
func unrestrictedBezierEvaluator(mode BezierMode) curve.Evaluator {
	if mode == BezierBinarySearch {
		return curve.BezierEvaluateBinarySearch
	}
	return curve.BezierEvaluateCardano
}

// fadeOrUnset converts an optional document fade time to the runtime
// representation: negative means "not specified".
func fadeOrUnset(v *float64) float64 {
	if v == nil {
		return -1
	}
	return *v
}
