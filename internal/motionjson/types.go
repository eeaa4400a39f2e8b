// Package motionjson provides data structures and parsers for motion JSON
// files. A motion file defines a time-stamped animation clip: global playback
// metadata plus a list of curves, each encoding a stream of interpolation
// segments that drive one model parameter or part over time.
package motionjson

// Document is the root structure of a motion JSON file.
type Document struct {
	// Version is the file format version, typically 3.
	Version int `json:"Version"`

	// Meta holds global playback metadata and the declared element counts
	// used to validate the curve streams.
	Meta Meta `json:"Meta"`

	// Curves is the list of animated channels.
	Curves []Curve `json:"Curves"`

	// UserData is the optional list of user events fired during playback.
	UserData []UserData `json:"UserData,omitempty"`
}

// Meta holds the global metadata of a motion file.
type Meta struct {
	// Duration is the clip length in seconds.
	Duration float64 `json:"Duration"`

	// Fps is the frame rate the clip was authored at.
	Fps float64 `json:"Fps"`

	// Loop reports whether the clip is intended for looped playback.
	Loop bool `json:"Loop"`

	// AreBeziersRestricted reports whether bezier segments were authored
	// with restricted (evenly spaced) control points. When true, the cheap
	// linear-parameter bezier evaluation is exact.
	AreBeziersRestricted bool `json:"AreBeziersRestricted"`

	// CurveCount is the declared number of curves. It must match
	// len(Curves) or the file is malformed.
	CurveCount int `json:"CurveCount"`

	// TotalSegmentCount is the declared number of segments across all
	// curve streams.
	TotalSegmentCount int `json:"TotalSegmentCount"`

	// TotalPointCount is the declared number of control points across all
	// curve streams.
	TotalPointCount int `json:"TotalPointCount"`

	// UserDataCount is the declared number of UserData entries.
	UserDataCount int `json:"UserDataCount"`

	// FadeInTime is the default fade-in duration in seconds. nil means the
	// file does not specify one.
	FadeInTime *float64 `json:"FadeInTime,omitempty"`

	// FadeOutTime is the default fade-out duration in seconds. nil means
	// the file does not specify one.
	FadeOutTime *float64 `json:"FadeOutTime,omitempty"`
}

// Curve is one animated channel of a motion file.
type Curve struct {
	// Target selects what the curve drives: "Model", "Parameter" or
	// "PartOpacity".
	Target string `json:"Target"`

	// Id is the parameter or part identifier, or one of the reserved model
	// channel names ("Opacity", "EyeBlink", "LipSync") when Target is
	// "Model".
	Id string `json:"Id"`

	// FadeInTime overrides the motion-level fade-in for this curve, in
	// seconds. nil means no override (use the motion-level fade), 0 means
	// no fade at all.
	FadeInTime *float64 `json:"FadeInTime,omitempty"`

	// FadeOutTime overrides the motion-level fade-out for this curve.
	// Semantics match FadeInTime.
	FadeOutTime *float64 `json:"FadeOutTime,omitempty"`

	// Segments is the flattened segment stream: a leading time/value pair
	// for the first control point, then repeated groups of
	// [segmentTypeCode, time, value, ...], sized per type (one new point
	// for linear/stepped/inverse-stepped, three for bezier).
	Segments []float64 `json:"Segments"`
}

// UserData is one timed user event of a motion file.
type UserData struct {
	// Time is the fire time in seconds, within [0, Meta.Duration].
	Time float64 `json:"Time"`

	// Value is the opaque event payload delivered to the caller.
	Value string `json:"Value"`
}
