package motion

// LoopBehavior selects the loop-restart bookkeeping version. Two historically
// incompatible behaviors exist and both must remain reproducible, since
// existing authored assets depend on the legacy timing.
type LoopBehavior int

const (
	// LoopBehaviorV2 is the current behavior: the playback entry's start
	// time is rewound to now minus the fractional overflow, preserving the
	// loop phase, and the effective loop duration gains one frame period to
	// avoid a one-frame gap at the seam.
	LoopBehaviorV2 LoopBehavior = iota

	// LoopBehaviorV1 is the legacy behavior: start and fade-in start are
	// reset to now exactly, producing an abrupt, non-phase-preserving
	// restart. Preserved bit-for-bit for compatibility.
	LoopBehaviorV1
)

// String returns the loop behavior name (used for logging and settings).
func (b LoopBehavior) String() string {
	if b == LoopBehaviorV1 {
		return "v1"
	}
	return "v2"
}

// PlaybackEntry is the mutable per-playback state of one playing motion.
// It is created by the scheduler when a motion starts, mutated by
// DoUpdateParameters every frame, and evicted by the scheduler once
// Finished is set. The same MotionData may be referenced by any number of
// entries; each playback owns exactly one entry.
type PlaybackEntry struct {
	// StartTime is the absolute time the current loop iteration started at,
	// in seconds. Rewound by the loop state machine on each cycle.
	StartTime float64

	// FadeInStartTime is the absolute time the fade-in ramp is measured
	// from. Re-triggered on loop restart when loop fade-in is enabled.
	FadeInStartTime float64

	// EndTime is the absolute time playback is scheduled to end at.
	// Negative means unbounded (not yet scheduled to end).
	EndTime float64

	// Finished is set once playback completed. The entry is inert
	// afterwards; the scheduler is expected to evict it.
	Finished bool
}

// NewPlaybackEntry creates an entry starting at the given absolute time with
// no scheduled end.
func NewPlaybackEntry(startTime float64) *PlaybackEntry {
	return &PlaybackEntry{
		StartTime:       startTime,
		FadeInStartTime: startTime,
		EndTime:         -1,
	}
}
