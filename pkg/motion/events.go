package motion

// FiredEvents returns the payloads of every event whose fire time lies in
// the half-open interval (beforeTime, currentTime]. The half-open bound
// makes firing exactly-once as time advances monotonically across frames of
// varying length: the previous frame's currentTime becomes the next frame's
// beforeTime.
func (d *MotionData) FiredEvents(beforeTime, currentTime float64) []string {
	var fired []string
	for i := range d.Events {
		if d.Events[i].FireTime > beforeTime && d.Events[i].FireTime <= currentTime {
			fired = append(fired, d.Events[i].Value)
		}
	}
	return fired
}

// FiredEvents reports the events fired between two playback times. See
// MotionData.FiredEvents. Returns nil for an empty motion.
func (m *Motion) FiredEvents(beforeTime, currentTime float64) []string {
	if m.data == nil {
		return nil
	}
	return m.data.FiredEvents(beforeTime, currentTime)
}
