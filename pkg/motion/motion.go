package motion

import (
	"math"

	"github.com/gonewx/motion/pkg/curve"
	"github.com/gonewx/motion/pkg/model"
)

// unsetValue marks an effect overlay channel that no model curve produced
// this frame.
const unsetValue = math.MaxFloat64

// FinishedHandler is invoked once when a non-looping motion (or a motion
// with a scheduled end time) completes.
type FinishedHandler func(m *Motion)

// Motion wraps an immutable MotionData store with per-instance playback
// configuration and performs the per-frame parameter blending pass.
//
// The scheduler layer decides which motions play, computes the global fade
// weight, and owns the PlaybackEntry passed to DoUpdateParameters; Motion
// only evaluates curves, blends values into the model, and advances the
// loop/completion state machine.
type Motion struct {
	data *MotionData

	// weight is the overall motion weight entering per-curve fade products.
	weight float64

	isLoop     bool
	loopFadeIn bool
	behavior   LoopBehavior

	// fadeInSeconds/fadeOutSeconds are the motion-level fades used by
	// curves that override only one of their two fade times. Non-positive
	// means no fade (full weight immediately).
	fadeInSeconds  float64
	fadeOutSeconds float64

	// Procedural effect configuration, supplied by the scheduler.
	eyeBlinkParameterIds []string
	lipSyncParameterIds  []string
	effectsAdditive      bool

	// Ids written with accumulate semantics instead of override.
	additiveParameters map[string]bool
	additiveParts      map[string]bool

	onFinished FinishedHandler
}

// New creates a Motion over parsed data. Loop mode and fade defaults are
// taken from the asset; everything else starts at production defaults
// (weight 1, loop behavior v2, loop fade-in enabled, no effect targets).
func New(data *MotionData) *Motion {
	m := &Motion{
		data:       data,
		weight:     1.0,
		loopFadeIn: true,
		behavior:   LoopBehaviorV2,
	}
	if data != nil {
		m.isLoop = data.Loop
		m.fadeInSeconds = data.FadeInTime
		m.fadeOutSeconds = data.FadeOutTime
	}
	return m
}

// Data returns the underlying motion data, or nil for an empty motion.
func (m *Motion) Data() *MotionData {
	return m.data
}

// Duration returns the clip length in seconds, 0 for an empty motion.
func (m *Motion) Duration() float64 {
	if m.data == nil {
		return 0
	}
	return m.data.Duration
}

// EffectiveDuration returns the loop period actually used for time wrapping:
// the clip duration, extended by one frame period under loop behavior v2 to
// close the seam gap.
func (m *Motion) EffectiveDuration() float64 {
	if m.data == nil {
		return 0
	}
	d := m.data.Duration
	if m.isLoop && m.behavior == LoopBehaviorV2 && m.data.Fps > 0 {
		d += 1.0 / m.data.Fps
	}
	return d
}

// WrapTime maps an elapsed playback time into the effective loop period.
// Non-looping motions return elapsed unchanged. Repeated subtraction rather
// than math.Mod to match the historical rounding exactly.
func (m *Motion) WrapTime(elapsed float64) float64 {
	if !m.isLoop {
		return elapsed
	}
	period := m.EffectiveDuration()
	if period <= 0 {
		return elapsed
	}
	for elapsed > period {
		elapsed -= period
	}
	return elapsed
}

// IsLoop reports whether the motion loops.
func (m *Motion) IsLoop() bool { return m.isLoop }

// SetIsLoop overrides the asset's loop flag for this instance.
func (m *Motion) SetIsLoop(loop bool) { m.isLoop = loop }

// SetLoopFadeIn controls whether the fade-in ramp restarts on every loop
// cycle.
func (m *Motion) SetLoopFadeIn(enabled bool) { m.loopFadeIn = enabled }

// SetLoopBehavior selects the loop-restart bookkeeping version.
func (m *Motion) SetLoopBehavior(b LoopBehavior) { m.behavior = b }

// Weight returns the overall motion weight.
func (m *Motion) Weight() float64 { return m.weight }

// SetWeight sets the overall motion weight (0-1).
func (m *Motion) SetWeight(w float64) { m.weight = w }

// SetFadeInTime overrides the motion-level fade-in duration in seconds.
func (m *Motion) SetFadeInTime(seconds float64) { m.fadeInSeconds = seconds }

// SetFadeOutTime overrides the motion-level fade-out duration in seconds.
func (m *Motion) SetFadeOutTime(seconds float64) { m.fadeOutSeconds = seconds }

// FadeInTime returns the motion-level fade-in duration in seconds.
func (m *Motion) FadeInTime() float64 { return m.fadeInSeconds }

// FadeOutTime returns the motion-level fade-out duration in seconds.
func (m *Motion) FadeOutTime() float64 { return m.fadeOutSeconds }

// SetEffectIds configures the parameter ids driven by the automatic
// eye-blink and lip-sync overlays, and whether overlay values are applied
// additively instead of overriding.
func (m *Motion) SetEffectIds(eyeBlinkIds, lipSyncIds []string, additive bool) {
	m.eyeBlinkParameterIds = append([]string(nil), eyeBlinkIds...)
	m.lipSyncParameterIds = append([]string(nil), lipSyncIds...)
	m.effectsAdditive = additive
}

// SetAdditiveParameters configures the parameter ids written with
// accumulate semantics.
func (m *Motion) SetAdditiveParameters(ids []string) {
	m.additiveParameters = idSet(ids)
}

// SetAdditiveParts configures the part ids whose opacity curves are written
// with accumulate semantics.
func (m *Motion) SetAdditiveParts(ids []string) {
	m.additiveParts = idSet(ids)
}

// SetOnFinished registers a handler invoked once when playback completes.
func (m *Motion) SetOnFinished(handler FinishedHandler) {
	m.onFinished = handler
}

// DoUpdateParameters is the per-frame entry point. It samples every curve of
// the motion at the playback time derived from userTime and the entry,
// blends the results into the target model using the global fadeWeight and
// any per-curve fade overrides, applies the eye-blink/lip-sync overlays to
// unclaimed targets, and advances the loop/completion state machine,
// mutating entry.
//
// An empty motion (no parsed data or zero curves) is a no-op; callers may
// keep polling the entry without special-casing.
func (m *Motion) DoUpdateParameters(target *model.Model, userTime, fadeWeight float64, entry *PlaybackEntry) {
	if m.data == nil || m.data.CurveCount == 0 || target == nil || entry == nil || entry.Finished {
		return
	}

	elapsed := userTime - entry.StartTime
	if elapsed < 0 {
		elapsed = 0
	}

	duration := m.data.Duration
	motionDuration := m.EffectiveDuration()
	isCorrection := m.isLoop && m.behavior == LoopBehaviorV2

	time := m.WrapTime(elapsed)

	// Motion-level fade ramps, used by curves overriding only one of their
	// two fade times.
	tmpFadeIn := 1.0
	if m.fadeInSeconds > 0 {
		tmpFadeIn = curve.EasingSine((userTime - entry.FadeInStartTime) / m.fadeInSeconds)
	}
	tmpFadeOut := 1.0
	if m.fadeOutSeconds > 0 && entry.EndTime >= 0 {
		tmpFadeOut = curve.EasingSine((entry.EndTime - userTime) / m.fadeOutSeconds)
	}

	eyeBlinkValue := unsetValue
	lipSyncValue := unsetValue

	curves := m.data.Curves
	c := 0

	// Model-group curves: cache effect overlay values, write opacity
	// directly. Model opacity is authoritative and takes no fade blending.
	for ; c < m.data.CurveCount && curves[c].Target == TargetModel; c++ {
		value := m.data.evaluateCurve(&curves[c], time, isCorrection, motionDuration)
		switch curves[c].Id {
		case IdEyeBlink:
			eyeBlinkValue = value
		case IdLipSync:
			lipSyncValue = value
		case IdOpacity:
			target.SetOpacity(value)
		}
	}

	// Overlay targets claimed by an explicit parameter curve this frame.
	// Sized to the configured target lists; there is no fixed upper bound.
	eyeBlinkClaimed := make([]bool, len(m.eyeBlinkParameterIds))
	lipSyncClaimed := make([]bool, len(m.lipSyncParameterIds))

	// Parameter-group curves.
	for ; c < m.data.CurveCount && curves[c].Target == TargetParameter; c++ {
		parameterIndex := target.ParameterIndex(curves[c].Id)
		if parameterIndex < 0 {
			// Motions are shared across model variants; a parameter absent
			// from this model is skipped, not an error.
			continue
		}

		value := m.data.evaluateCurve(&curves[c], time, isCorrection, motionDuration)

		// A curve explicitly driving an effect target folds the overlay in
		// here and claims the target so the overlay pass below does not
		// apply it a second time.
		if eyeBlinkValue != unsetValue {
			for i, id := range m.eyeBlinkParameterIds {
				if id == curves[c].Id {
					value *= eyeBlinkValue
					eyeBlinkClaimed[i] = true
					break
				}
			}
		}
		if lipSyncValue != unsetValue {
			for i, id := range m.lipSyncParameterIds {
				if id == curves[c].Id {
					value += lipSyncValue
					lipSyncClaimed[i] = true
					break
				}
			}
		}

		paramWeight := fadeWeight
		if curves[c].HasFadeOverride() {
			paramWeight = m.weight * m.curveFadeIn(&curves[c], userTime, entry, tmpFadeIn) *
				m.curveFadeOut(&curves[c], userTime, entry, tmpFadeOut)
		}

		if m.additiveParameters[curves[c].Id] {
			target.AddParameterValue(parameterIndex, value, paramWeight)
		} else {
			target.SetParameterValue(parameterIndex, value, paramWeight)
		}
	}

	// Overlay pass: apply the pending effect values to every configured
	// target not already driven by an explicit curve this frame.
	if eyeBlinkValue != unsetValue {
		for i, id := range m.eyeBlinkParameterIds {
			if eyeBlinkClaimed[i] {
				continue
			}
			index := target.ParameterIndex(id)
			if index < 0 {
				continue
			}
			if m.effectsAdditive {
				target.AddParameterValue(index, eyeBlinkValue, fadeWeight)
			} else {
				target.SetParameterValue(index, eyeBlinkValue, fadeWeight)
			}
		}
	}
	if lipSyncValue != unsetValue {
		for i, id := range m.lipSyncParameterIds {
			if lipSyncClaimed[i] {
				continue
			}
			index := target.ParameterIndex(id)
			if index < 0 {
				continue
			}
			if m.effectsAdditive {
				target.AddParameterValue(index, lipSyncValue, fadeWeight)
			} else {
				target.SetParameterValue(index, lipSyncValue, fadeWeight)
			}
		}
	}

	// PartOpacity-group curves: full authored value, no fade weighting.
	for ; c < m.data.CurveCount && curves[c].Target == TargetPartOpacity; c++ {
		partIndex := target.PartIndex(curves[c].Id)
		if partIndex < 0 {
			continue
		}
		value := m.data.evaluateCurve(&curves[c], time, isCorrection, motionDuration)
		if m.additiveParts[curves[c].Id] {
			target.AddPartOpacity(partIndex, value, 1.0)
		} else {
			target.SetPartOpacity(partIndex, value, 1.0)
		}
	}

	// Loop/completion state machine.
	if entry.EndTime >= 0 && userTime >= entry.EndTime {
		m.finish(entry)
		return
	}
	if m.isLoop {
		if elapsed >= motionDuration {
			m.updateForNextLoop(entry, userTime, time)
		}
	} else if elapsed >= duration {
		m.finish(entry)
	}
}

// curveFadeIn resolves the fade-in factor for a curve with a fade override.
func (m *Motion) curveFadeIn(c *MotionCurve, userTime float64, entry *PlaybackEntry, tmpFadeIn float64) float64 {
	switch {
	case c.FadeInTime < 0:
		return tmpFadeIn
	case c.FadeInTime == 0:
		return 1.0
	default:
		return curve.EasingSine((userTime - entry.FadeInStartTime) / c.FadeInTime)
	}
}

// curveFadeOut resolves the fade-out factor for a curve with a fade override.
func (m *Motion) curveFadeOut(c *MotionCurve, userTime float64, entry *PlaybackEntry, tmpFadeOut float64) float64 {
	switch {
	case c.FadeOutTime < 0:
		return tmpFadeOut
	case c.FadeOutTime == 0, entry.EndTime < 0:
		return 1.0
	default:
		return curve.EasingSine((entry.EndTime - userTime) / c.FadeOutTime)
	}
}

// updateForNextLoop rewinds the playback entry for the next loop cycle.
// wrappedTime is the already-wrapped sampling time of the current frame.
func (m *Motion) updateForNextLoop(entry *PlaybackEntry, userTime, wrappedTime float64) {
	switch m.behavior {
	case LoopBehaviorV1:
		// Legacy: restart at now exactly, discarding the overflow phase.
		entry.StartTime = userTime
		if m.loopFadeIn {
			entry.FadeInStartTime = userTime
		}
	default:
		// Preserve the fractional overflow for continuity across the seam.
		entry.StartTime = userTime - wrappedTime
		if m.loopFadeIn {
			entry.FadeInStartTime = userTime - wrappedTime
		}
	}
}

// finish marks the entry terminal and notifies the handler once.
func (m *Motion) finish(entry *PlaybackEntry) {
	if entry.Finished {
		return
	}
	entry.Finished = true
	if m.onFinished != nil {
		m.onFinished(m)
	}
}

func idSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
