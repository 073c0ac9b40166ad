// Package testutil provides shared test utilities and fixtures.
//
// Besides the usual assertion helpers, it builds synthetic pose
// trajectories: a steady single-leg stance with controllable noise,
// plus mutators that inject specific failure events at a chosen time.
package testutil

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stance-data/balance.report/internal/pose"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// Reference geometry of the synthetic athlete, in normalized
// coordinates. The subject stands mid-frame, hands on hips, right foot
// raised to mid-calf.
const (
	stanceHipY      = 0.55
	stanceShoulderY = 0.35
	stanceAnkleY    = 0.90
	raisedAnkleY    = 0.78
	stanceCenterX   = 0.50
	hipHalfWidth    = 0.05
)

// StanceFrame builds one valid 33-landmark frame of a steady left-leg
// stance at the given timestamp. sway shifts the whole body in x;
// use 0 for a perfectly still subject.
func StanceFrame(timestamp, sway float64) pose.Frame {
	lm := make([]*pose.Landmark, pose.LandmarkCount)
	for i := range lm {
		// Filler points (head, hands, feet details) sit near the body
		// center; the engine only reads the named indices below.
		lm[i] = &pose.Landmark{X: stanceCenterX + sway, Y: 0.5, Visibility: 1.0}
	}
	cx := stanceCenterX + sway

	lm[pose.LeftShoulder] = &pose.Landmark{X: cx - hipHalfWidth, Y: stanceShoulderY, Visibility: 1.0}
	lm[pose.RightShoulder] = &pose.Landmark{X: cx + hipHalfWidth, Y: stanceShoulderY, Visibility: 1.0}
	lm[pose.LeftHip] = &pose.Landmark{X: cx - hipHalfWidth, Y: stanceHipY, Visibility: 1.0}
	lm[pose.RightHip] = &pose.Landmark{X: cx + hipHalfWidth, Y: stanceHipY, Visibility: 1.0}

	// Hands on hips.
	lm[pose.LeftWrist] = &pose.Landmark{X: cx - hipHalfWidth, Y: stanceHipY, Visibility: 1.0}
	lm[pose.RightWrist] = &pose.Landmark{X: cx + hipHalfWidth, Y: stanceHipY, Visibility: 1.0}

	// Standing on the left leg, right foot raised.
	lm[pose.LeftAnkle] = &pose.Landmark{X: cx - hipHalfWidth, Y: stanceAnkleY, Visibility: 1.0}
	lm[pose.RightAnkle] = &pose.Landmark{X: cx + hipHalfWidth, Y: raisedAnkleY, Visibility: 1.0}

	return pose.Frame{Timestamp: timestamp, Landmarks: lm}
}

// SteadyTrajectory builds a left-leg stance held for the given number
// of seconds at 30 fps with a small sinusoidal sway of the given
// amplitude. The subject never triggers a failure condition.
func SteadyTrajectory(seconds, swayAmplitude float64) *pose.Trajectory {
	const fps = 30.0
	n := int(seconds*fps) + 1
	frames := make([]pose.Frame, 0, n)
	for i := 0; i < n; i++ {
		ts := float64(i) / fps
		sway := swayAmplitude * math.Sin(2*math.Pi*0.5*ts)
		frames = append(frames, StanceFrame(ts, sway))
	}
	return &pose.Trajectory{Frames: frames, SampleRate: fps}
}

// DropFoot lowers the raised (right) ankle to ground level in every
// frame at or after the given timestamp, triggering foot_touchdown.
func DropFoot(traj *pose.Trajectory, at float64) {
	for i := range traj.Frames {
		f := &traj.Frames[i]
		if f.Timestamp >= at && f.Valid() {
			f.Landmarks[pose.RightAnkle].Y = stanceAnkleY
		}
	}
}

// RaiseHands moves both wrists to shoulder height in every frame at or
// after the given timestamp, triggering hands_left_hips.
func RaiseHands(traj *pose.Trajectory, at float64) {
	for i := range traj.Frames {
		f := &traj.Frames[i]
		if f.Timestamp >= at && f.Valid() {
			f.Landmarks[pose.LeftWrist].Y = stanceShoulderY
			f.Landmarks[pose.RightWrist].Y = stanceShoulderY
		}
	}
}

// ShiftSupportFoot displaces the standing (left) ankle horizontally in
// every frame at or after the given timestamp, triggering
// support_foot_moved when the shift exceeds the detector threshold.
func ShiftSupportFoot(traj *pose.Trajectory, at, shift float64) {
	for i := range traj.Frames {
		f := &traj.Frames[i]
		if f.Timestamp >= at && f.Valid() {
			f.Landmarks[pose.LeftAnkle].X += shift
		}
	}
}

// BlankFrames removes the landmarks from frames in [from, to),
// simulating detection dropout.
func BlankFrames(traj *pose.Trajectory, from, to float64) {
	for i := range traj.Frames {
		f := &traj.Frames[i]
		if f.Timestamp >= from && f.Timestamp < to {
			f.Landmarks = nil
		}
	}
}
