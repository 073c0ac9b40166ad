// Package pose defines the landmark data model shared by the balance
// analysis pipeline: a 33-point body landmark frame as produced by an
// upstream pose-estimation model, and the timestamped trajectory of
// frames recorded for one test attempt.
package pose

import "fmt"

// LandmarkCount is the number of body points in a full pose frame.
const LandmarkCount = 33

// MediaPipe pose landmark indices (0-indexed).
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// MinVisibility is the minimum visibility confidence for a landmark to
// be considered usable.
const MinVisibility = 0.5

// Landmark is a single tracked body point in normalized, camera-relative
// coordinates. X and Y are fractions of frame width and height with Y
// increasing downward; Z is relative depth; Visibility is in [0,1].
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Frame is one timestamped pose observation. Landmarks is nil when the
// upstream model detected no person in the frame.
type Frame struct {
	Timestamp float64     `json:"timestamp"` // seconds from start of recording
	Landmarks []*Landmark `json:"landmarks,omitempty"`
}

// Valid reports whether the frame carries a full set of landmarks.
func (f *Frame) Valid() bool {
	return len(f.Landmarks) == LandmarkCount
}

// Trajectory is the ordered frame sequence for one test attempt.
// Timestamps must be strictly increasing; frames with absent landmarks
// are tolerated and skipped by consumers.
type Trajectory struct {
	Frames     []Frame `json:"frames"`
	SampleRate float64 `json:"fps"` // nominal samples per second
}

// Validate checks the trajectory ordering invariant.
func (t *Trajectory) Validate() error {
	for i := 1; i < len(t.Frames); i++ {
		if t.Frames[i].Timestamp <= t.Frames[i-1].Timestamp {
			return fmt.Errorf("trajectory timestamps not strictly increasing at frame %d (%.6f after %.6f)",
				i, t.Frames[i].Timestamp, t.Frames[i-1].Timestamp)
		}
	}
	return nil
}

// ValidFrameCount returns the number of frames with a full landmark set.
func (t *Trajectory) ValidFrameCount() int {
	n := 0
	for i := range t.Frames {
		if t.Frames[i].Valid() {
			n++
		}
	}
	return n
}

// ObservedSampleRate estimates the actual frame rate from timestamps.
// Falls back to the nominal rate when the trajectory is too short or
// spans zero time.
func (t *Trajectory) ObservedSampleRate() float64 {
	if len(t.Frames) < 2 {
		return t.SampleRate
	}
	span := t.Frames[len(t.Frames)-1].Timestamp - t.Frames[0].Timestamp
	if span <= 0 {
		return t.SampleRate
	}
	return float64(len(t.Frames)-1) / span
}

// Side identifies a body side.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Valid reports whether s is a recognised side value.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// SessionParams describes one balance test attempt: which leg the
// athlete stands on, the protocol's maximum hold duration, and the
// athlete's age (used only for tier-expectation lookup).
type SessionParams struct {
	StandingLeg Side    `json:"standing_leg"`
	MaxDuration float64 `json:"max_duration"` // seconds
	AthleteAge  int     `json:"athlete_age"`
}

// Validate checks the session parameters.
func (p *SessionParams) Validate() error {
	if !p.StandingLeg.Valid() {
		return fmt.Errorf("standing_leg must be %q or %q, got %q", SideLeft, SideRight, p.StandingLeg)
	}
	if p.MaxDuration <= 0 {
		return fmt.Errorf("max_duration must be positive, got %f", p.MaxDuration)
	}
	return nil
}
