package motion

import (
	"math"
	"testing"

	"github.com/gonewx/motion/internal/motionjson"
	"github.com/gonewx/motion/pkg/curve"
	"github.com/gonewx/motion/pkg/model"
)

// docFromCurves builds a document around the given curves, deriving the meta
// counts from the segment streams.
func docFromCurves(duration, fps float64, loop bool, curves ...motionjson.Curve) *motionjson.Document {
	segCount, pointCount := 0, 0
	for _, c := range curves {
		pointCount++
		for pos := 2; pos < len(c.Segments); {
			segCount++
			if c.Segments[pos] == 1 {
				pointCount += 3
				pos += 7
			} else {
				pointCount++
				pos += 3
			}
		}
	}
	return &motionjson.Document{
		Version: 3,
		Meta: motionjson.Meta{
			Duration:          duration,
			Fps:               fps,
			Loop:              loop,
			CurveCount:        len(curves),
			TotalSegmentCount: segCount,
			TotalPointCount:   pointCount,
		},
		Curves: curves,
	}
}

// constCurve is a single linear segment holding value across the clip.
func constCurve(target, id string, duration, value float64) motionjson.Curve {
	return motionjson.Curve{
		Target:   target,
		Id:       id,
		Segments: []float64{0, value, 0, duration, value},
	}
}

func mustMotion(t *testing.T, doc *motionjson.Document) *Motion {
	t.Helper()
	return New(mustParse(t, doc))
}

// TestMotionPlaybackAndFinish tests sampling, the end-of-clip hold and the
// one-shot completion of a non-looping motion.
func TestMotionPlaybackAndFinish(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false, motionjson.Curve{
		Target:   "Parameter",
		Id:       "ParamAngleX",
		Segments: []float64{0, 0, 0, 2, 1},
	})
	m := mustMotion(t, doc)

	finished := 0
	m.SetOnFinished(func(fm *Motion) {
		if fm != m {
			t.Error("Handler received a different motion")
		}
		finished++
	})

	target := model.NewModel([]string{"ParamAngleX"}, nil)
	entry := NewPlaybackEntry(0)

	m.DoUpdateParameters(target, 1.0, 1.0, entry)
	if got := target.ParameterValue(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("At t=1.0: expected 0.5, got %v", got)
	}
	if entry.Finished {
		t.Fatal("Finished before the clip ended")
	}

	// Past the end the last value is held and the motion completes once.
	m.DoUpdateParameters(target, 3.0, 1.0, entry)
	if got := target.ParameterValue(0); got != 1.0 {
		t.Errorf("Past end: expected held value 1.0, got %v", got)
	}
	if !entry.Finished || finished != 1 {
		t.Fatalf("Expected finished entry and one callback, got finished=%v calls=%d",
			entry.Finished, finished)
	}

	// A finished entry is inert.
	target.SetParameterValue(0, -5, 1)
	m.DoUpdateParameters(target, 4.0, 1.0, entry)
	if got := target.ParameterValue(0); got != -5 {
		t.Errorf("Finished motion wrote to the model: %v", got)
	}
	if finished != 1 {
		t.Errorf("Expected exactly one callback, got %d", finished)
	}
}

// TestMotionEmptyNoOp tests that empty motions update nothing and never panic.
func TestMotionEmptyNoOp(t *testing.T) {
	target := model.NewModel([]string{"ParamAngleX"}, nil)
	entry := NewPlaybackEntry(0)

	empty := New(nil)
	empty.DoUpdateParameters(target, 1.0, 1.0, entry)
	if entry.Finished {
		t.Error("Nil-data motion mutated the entry")
	}
	if empty.Duration() != 0 || empty.EffectiveDuration() != 0 {
		t.Error("Expected zero durations for nil-data motion")
	}
	if empty.FiredEvents(0, 1) != nil {
		t.Error("Expected nil events for nil-data motion")
	}

	zeroCurves := mustMotion(t, docFromCurves(2.0, 30.0, false))
	zeroCurves.DoUpdateParameters(target, 1.0, 1.0, entry)
	if got := target.ParameterValue(0); got != 0 {
		t.Errorf("Zero-curve motion wrote to the model: %v", got)
	}
}

// TestEyeBlinkOverlayAndSuppression tests the multiply overlay, the claim
// that suppresses double application, and idempotence across repeated passes.
func TestEyeBlinkOverlayAndSuppression(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Model", IdEyeBlink, 2.0, 0.5),
		constCurve("Parameter", "ParamEyeLOpen", 2.0, 1.0),
	)
	m := mustMotion(t, doc)
	m.SetEffectIds([]string{"ParamEyeLOpen", "ParamEyeROpen"}, nil, false)

	target := model.NewModel([]string{"ParamEyeLOpen", "ParamEyeROpen"}, nil)
	entry := NewPlaybackEntry(0)

	m.DoUpdateParameters(target, 0.5, 1.0, entry)

	// The explicit curve claims its target: 1.0 * 0.5, applied once.
	if got := target.ParameterValue(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Claimed target: expected 0.5, got %v", got)
	}
	// The unclaimed target receives the raw overlay value.
	if got := target.ParameterValue(1); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Overlay target: expected 0.5, got %v", got)
	}

	// Re-running the pass must not compound the multiply.
	m.DoUpdateParameters(target, 0.5, 1.0, entry)
	if got := target.ParameterValue(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Second pass compounded the overlay: got %v", got)
	}
}

// TestLipSyncOverlay tests the additive overlay and its claim suppression.
func TestLipSyncOverlay(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Model", IdLipSync, 2.0, 0.3),
		constCurve("Parameter", "ParamMouthOpenY", 2.0, 0.4),
	)

	t.Run("override overlay", func(t *testing.T) {
		m := mustMotion(t, doc)
		m.SetEffectIds(nil, []string{"ParamMouthOpenY", "ParamMouthForm"}, false)

		target := model.NewModel([]string{"ParamMouthOpenY", "ParamMouthForm"}, nil)
		target.SetParameterValue(1, 0.5, 1)

		m.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))

		if got := target.ParameterValue(0); math.Abs(got-0.7) > 1e-12 {
			t.Errorf("Claimed target: expected 0.4+0.3=0.7, got %v", got)
		}
		if got := target.ParameterValue(1); math.Abs(got-0.3) > 1e-12 {
			t.Errorf("Overlay target: expected override 0.3, got %v", got)
		}
	})

	t.Run("additive overlay", func(t *testing.T) {
		m := mustMotion(t, doc)
		m.SetEffectIds(nil, []string{"ParamMouthOpenY", "ParamMouthForm"}, true)

		target := model.NewModel([]string{"ParamMouthOpenY", "ParamMouthForm"}, nil)
		target.SetParameterValue(1, 0.5, 1)

		m.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))

		if got := target.ParameterValue(1); math.Abs(got-0.8) > 1e-12 {
			t.Errorf("Overlay target: expected 0.5+0.3=0.8, got %v", got)
		}
	})
}

// TestModelOpacityWrittenDirectly tests that the reserved opacity channel
// bypasses fade blending.
func TestModelOpacityWrittenDirectly(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Model", IdOpacity, 2.0, 0.25),
	)
	m := mustMotion(t, doc)

	target := model.NewModel(nil, nil)
	m.DoUpdateParameters(target, 0.5, 0.5, NewPlaybackEntry(0))

	if got := target.Opacity(); got != 0.25 {
		t.Errorf("Expected opacity 0.25 regardless of fade weight, got %v", got)
	}
}

// TestUnresolvedTargetsSkipped tests that curves naming ids absent from the
// model are skipped without error.
func TestUnresolvedTargetsSkipped(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Parameter", "ParamMissing", 2.0, 1.0),
		constCurve("PartOpacity", "PartMissing", 2.0, 0.0),
	)
	m := mustMotion(t, doc)

	target := model.NewModel([]string{"ParamAngleX"}, []string{"PartArmL"})
	m.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))

	if got := target.ParameterValue(0); got != 0 {
		t.Errorf("Unrelated parameter changed: %v", got)
	}
	if got := target.PartOpacity(0); got != 1.0 {
		t.Errorf("Unrelated part opacity changed: %v", got)
	}
}

// TestPartOpacityCurves tests the part group's full-weight write and the
// additive-part configuration.
func TestPartOpacityCurves(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("PartOpacity", "PartArmL", 2.0, 0.5),
	)

	m := mustMotion(t, doc)
	target := model.NewModel(nil, []string{"PartArmL"})
	// Part curves ignore the global fade weight.
	m.DoUpdateParameters(target, 0.5, 0.1, NewPlaybackEntry(0))
	if got := target.PartOpacity(0); got != 0.5 {
		t.Errorf("Expected part opacity 0.5, got %v", got)
	}

	additive := mustMotion(t, doc)
	additive.SetAdditiveParts([]string{"PartArmL"})
	target = model.NewModel(nil, []string{"PartArmL"})
	additive.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))
	if got := target.PartOpacity(0); got != 1.5 {
		t.Errorf("Expected accumulated part opacity 1.5, got %v", got)
	}
}

// TestAdditiveParameters tests accumulate semantics for configured parameters.
func TestAdditiveParameters(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Parameter", "ParamAngleX", 2.0, 0.5),
	)
	m := mustMotion(t, doc)
	m.SetAdditiveParameters([]string{"ParamAngleX"})

	target := model.NewModel([]string{"ParamAngleX"}, nil)
	target.SetParameterValue(0, 0.2, 1)

	m.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))
	if got := target.ParameterValue(0); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("Expected 0.2+0.5=0.7, got %v", got)
	}
}

// TestCurveFadeOverrides tests that a curve declaring its own fade times
// ignores the global fade weight.
func TestCurveFadeOverrides(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Parameter", "ParamInstant", 2.0, 1.0),
		constCurve("Parameter", "ParamRamped", 2.0, 1.0),
		constCurve("Parameter", "ParamGlobal", 2.0, 1.0),
	)
	doc.Curves[0].FadeInTime = fptr(0.0) // no fade: full weight immediately
	doc.Curves[1].FadeInTime = fptr(0.5) // own sine ramp
	m := mustMotion(t, doc)

	ids := []string{"ParamInstant", "ParamRamped", "ParamGlobal"}
	target := model.NewModel(ids, nil)

	const userTime = 0.25
	const fadeWeight = 0.25
	m.DoUpdateParameters(target, userTime, fadeWeight, NewPlaybackEntry(0))

	if got := target.ParameterValue(0); got != 1.0 {
		t.Errorf("Instant curve: expected full value 1.0, got %v", got)
	}
	// Own ramp: weight 1 * ease(0.25/0.5), blended from 0.
	wantRamped := curve.EasingSine(userTime / 0.5)
	if got := target.ParameterValue(1); math.Abs(got-wantRamped) > 1e-12 {
		t.Errorf("Ramped curve: expected %v, got %v", wantRamped, got)
	}
	// No override: the caller's fade weight applies.
	if got := target.ParameterValue(2); math.Abs(got-fadeWeight) > 1e-12 {
		t.Errorf("Global curve: expected %v, got %v", fadeWeight, got)
	}
}

// TestCurveFadeOutOverride tests the fade-out ramp against a scheduled end.
func TestCurveFadeOutOverride(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, false,
		constCurve("Parameter", "ParamAngleX", 2.0, 1.0),
	)
	doc.Curves[0].FadeOutTime = fptr(1.0)
	m := mustMotion(t, doc)

	target := model.NewModel([]string{"ParamAngleX"}, nil)
	entry := NewPlaybackEntry(0)
	entry.EndTime = 1.0

	m.DoUpdateParameters(target, 0.5, 1.0, entry)
	want := curve.EasingSine((entry.EndTime - 0.5) / 1.0)
	if got := target.ParameterValue(0); math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected fade-out weighted value %v, got %v", want, got)
	}

	// Without a scheduled end the fade-out contributes nothing.
	target = model.NewModel([]string{"ParamAngleX"}, nil)
	m.DoUpdateParameters(target, 0.5, 1.0, NewPlaybackEntry(0))
	if got := target.ParameterValue(0); got != 1.0 {
		t.Errorf("Unbounded playback: expected 1.0, got %v", got)
	}
}

// TestScheduledEndFinishes tests completion at the entry's scheduled end.
func TestScheduledEndFinishes(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 2.0, 1.0),
	)
	m := mustMotion(t, doc)

	entry := NewPlaybackEntry(0)
	entry.EndTime = 0.5

	// A looping motion still terminates at its scheduled end.
	m.DoUpdateParameters(model.NewModel(nil, nil), 0.6, 1.0, entry)
	if !entry.Finished {
		t.Error("Expected finish at scheduled end time")
	}
}

// TestEffectiveDuration tests the loop period per behavior version.
func TestEffectiveDuration(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 1.0, 1.0),
	)
	m := mustMotion(t, doc)

	if got := m.EffectiveDuration(); math.Abs(got-(1.0+1.0/30.0)) > 1e-12 {
		t.Errorf("v2 loop: expected duration+1/fps, got %v", got)
	}

	m.SetLoopBehavior(LoopBehaviorV1)
	if got := m.EffectiveDuration(); got != 1.0 {
		t.Errorf("v1 loop: expected plain duration, got %v", got)
	}

	m.SetLoopBehavior(LoopBehaviorV2)
	m.SetIsLoop(false)
	if got := m.EffectiveDuration(); got != 1.0 {
		t.Errorf("non-loop: expected plain duration, got %v", got)
	}
}

// TestLoopSeamContinuity tests that inside the one-frame seam window of the
// extended v2 loop period the blending pass interpolates back toward the
// curve's first value instead of holding the last one.
func TestLoopSeamContinuity(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true, motionjson.Curve{
		Target:   "Parameter",
		Id:       "ParamAngleX",
		Segments: []float64{0, 0, 0, 1, 1},
	})
	m := mustMotion(t, doc)

	target := model.NewModel([]string{"ParamAngleX"}, nil)

	// Halfway through the seam window the join is halfway back to the
	// first value.
	m.DoUpdateParameters(target, 1.0+0.5/30.0, 1.0, NewPlaybackEntry(0))
	if got := target.ParameterValue(0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Mid-seam: expected 0.5, got %v", got)
	}

	// Near the end of the window the value has nearly returned to the
	// first control point.
	m.DoUpdateParameters(target, 1.0+0.9/30.0, 1.0, NewPlaybackEntry(0))
	if got := target.ParameterValue(0); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Late seam: expected 0.1, got %v", got)
	}

	// The legacy behavior keeps the plain period: the same user time lands
	// after a restart, not inside a seam window.
	m.SetLoopBehavior(LoopBehaviorV1)
	target = model.NewModel([]string{"ParamAngleX"}, nil)
	m.DoUpdateParameters(target, 1.0+0.5/30.0, 1.0, NewPlaybackEntry(0))
	if got := target.ParameterValue(0); math.Abs(got-0.5/30.0) > 1e-9 {
		t.Errorf("v1 wrap: expected %v, got %v", 0.5/30.0, got)
	}
}

// TestWrapTime tests elapsed-time mapping into the loop period.
func TestWrapTime(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 1.0, 1.0),
	)
	m := mustMotion(t, doc)
	period := m.EffectiveDuration()

	if got := m.WrapTime(0.4); got != 0.4 {
		t.Errorf("Within period: expected 0.4, got %v", got)
	}
	if got := m.WrapTime(period + 0.25); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("One period over: expected 0.25, got %v", got)
	}

	m.SetIsLoop(false)
	if got := m.WrapTime(5.0); got != 5.0 {
		t.Errorf("Non-loop: expected elapsed unchanged, got %v", got)
	}
}

// TestLoopRewindV2 tests the phase-preserving rewind and the loop fade-in
// restart.
func TestLoopRewindV2(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 1.0, 1.0),
	)
	m := mustMotion(t, doc)

	period := m.EffectiveDuration()
	target := model.NewModel([]string{"ParamAngleX"}, nil)

	entry := NewPlaybackEntry(0)
	userTime := 1.5 // past the first loop period
	m.DoUpdateParameters(target, userTime, 1.0, entry)

	if entry.Finished {
		t.Fatal("Looping motion finished")
	}
	// StartTime advances by exactly one loop period, keeping the phase.
	if math.Abs(entry.StartTime-period) > 1e-12 {
		t.Errorf("Expected StartTime=%v, got %v", period, entry.StartTime)
	}
	if entry.FadeInStartTime != entry.StartTime {
		t.Errorf("Expected fade-in restart at %v, got %v", entry.StartTime, entry.FadeInStartTime)
	}

	// With loop fade-in disabled the ramp anchor stays put.
	m.SetLoopFadeIn(false)
	entry = NewPlaybackEntry(0)
	m.DoUpdateParameters(target, userTime, 1.0, entry)
	if entry.FadeInStartTime != 0 {
		t.Errorf("Expected fade-in anchor to stay at 0, got %v", entry.FadeInStartTime)
	}
}

// TestLoopRestartV1 tests the legacy abrupt restart.
func TestLoopRestartV1(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 1.0, 1.0),
	)
	m := mustMotion(t, doc)
	m.SetLoopBehavior(LoopBehaviorV1)

	entry := NewPlaybackEntry(0)
	userTime := 1.5
	m.DoUpdateParameters(model.NewModel(nil, nil), userTime, 1.0, entry)

	if entry.Finished {
		t.Fatal("Looping motion finished")
	}
	// Legacy restart discards the overflow phase entirely.
	if entry.StartTime != userTime || entry.FadeInStartTime != userTime {
		t.Errorf("Expected restart at %v, got start=%v fadeIn=%v",
			userTime, entry.StartTime, entry.FadeInStartTime)
	}
}

// TestLoopSamplingWraps tests that the sampling time wraps into the loop
// period.
func TestLoopSamplingWraps(t *testing.T) {
	doc := docFromCurves(1.0, 30.0, true, motionjson.Curve{
		Target:   "Parameter",
		Id:       "ParamAngleX",
		Segments: []float64{0, 0, 0, 1, 1},
	})
	m := mustMotion(t, doc)
	m.SetLoopBehavior(LoopBehaviorV1) // plain period keeps the math exact

	target := model.NewModel([]string{"ParamAngleX"}, nil)
	m.DoUpdateParameters(target, 1.2, 1.0, NewPlaybackEntry(0))

	if got := target.ParameterValue(0); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Expected wrapped sample 0.2, got %v", got)
	}
}

// TestMotionDefaultsFromAsset tests that loop mode and fades initialize from
// the parsed data.
func TestMotionDefaultsFromAsset(t *testing.T) {
	doc := docFromCurves(2.0, 30.0, true,
		constCurve("Parameter", "ParamAngleX", 2.0, 1.0),
	)
	doc.Meta.FadeInTime = fptr(0.5)
	doc.Meta.FadeOutTime = fptr(0.75)

	m := mustMotion(t, doc)
	if !m.IsLoop() {
		t.Error("Expected loop flag from asset")
	}
	if m.FadeInTime() != 0.5 || m.FadeOutTime() != 0.75 {
		t.Errorf("Expected fades (0.5, 0.75), got (%v, %v)", m.FadeInTime(), m.FadeOutTime())
	}
	if m.Weight() != 1.0 {
		t.Errorf("Expected default weight 1, got %v", m.Weight())
	}
	if m.Duration() != 2.0 {
		t.Errorf("Expected duration 2, got %v", m.Duration())
	}
}
