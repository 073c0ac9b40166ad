package balance

import (
	"fmt"
	"math"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/pose"
)

// FailureReason identifies why a balance test ended.
type FailureReason string

const (
	// ReasonTimeComplete means the athlete held the pose for the full
	// protocol duration. The only success outcome.
	ReasonTimeComplete FailureReason = "time_complete"
	// ReasonFootTouchdown means the raised foot returned to ground level.
	ReasonFootTouchdown FailureReason = "foot_touchdown"
	// ReasonSupportFootMoved means the standing ankle drifted from its
	// initial position.
	ReasonSupportFootMoved FailureReason = "support_foot_moved"
	// ReasonHandsLeftHips means a wrist moved away from its hip.
	ReasonHandsLeftHips FailureReason = "hands_left_hips"
)

// Outcome is the terminal artifact of failure detection: how long the
// test ran, why it stopped, and the frame where it stopped. Exactly one
// outcome exists per trajectory and it is never mutated.
type Outcome struct {
	Duration   float64       `json:"duration"` // seconds
	Reason     FailureReason `json:"reason"`
	FrameIndex int           `json:"frame_index"`
}

// footBaseline is the standing-ankle reference position estimated from
// the opening frames of the recording.
type footBaseline struct {
	x, y float64
}

// estimateBaseline averages the standing-ankle position over the first
// baseline window of valid frames. Returns ErrNoInitialPose when no
// valid frame exists to seed it.
func estimateBaseline(frames []pose.Frame, ankleIdx, window int) (footBaseline, error) {
	var sumX, sumY float64
	count := 0
	for i := range frames {
		if !frames[i].Valid() {
			continue
		}
		a := frames[i].Landmarks[ankleIdx]
		sumX += a.X
		sumY += a.Y
		count++
		if count == window {
			break
		}
	}
	if count == 0 {
		return footBaseline{}, ErrNoInitialPose
	}
	return footBaseline{x: sumX / float64(count), y: sumY / float64(count)}, nil
}

// DetectFailure scans the trajectory frame by frame, in timestamp
// order, in a single pass with no backtracking, and returns the first
// terminal event. Four checks run per frame in fixed priority order:
// time_complete first (a success in the same instant as a failure must
// not be preempted), then foot_touchdown (the most behaviorally
// unambiguous failure), then support_foot_moved, then hands_left_hips.
//
// A trajectory that ends early with no event is reported as
// ErrTruncatedRecording rather than time_complete: the recording is
// incomplete, not a completed test. A tolerance of one nominal frame
// interval below max duration still counts as complete.
func DetectFailure(traj *pose.Trajectory, params pose.SessionParams, cfg *config.TuningConfig) (Outcome, error) {
	if len(traj.Frames) == 0 {
		return Outcome{}, fmt.Errorf("%w: empty trajectory", ErrInsufficientData)
	}

	supportIdx := pose.LeftAnkle
	raisedIdx := pose.RightAnkle
	if params.StandingLeg == pose.SideRight {
		supportIdx = pose.RightAnkle
		raisedIdx = pose.LeftAnkle
	}

	baseline, err := estimateBaseline(traj.Frames, supportIdx, cfg.GetBaselineFrames())
	if err != nil {
		return Outcome{}, err
	}
	groundLevel := baseline.y

	touchdownTol := cfg.GetTouchdownTolerance()
	supportThresh := cfg.GetSupportFootThreshold()
	handsThresh := cfg.GetHandsOffHipsThreshold()

	for i := range traj.Frames {
		frame := &traj.Frames[i]

		// Success check runs first, on every frame: the timestamp is
		// known even when landmarks are absent.
		if frame.Timestamp >= params.MaxDuration {
			return Outcome{
				Duration:   params.MaxDuration,
				Reason:     ReasonTimeComplete,
				FrameIndex: i,
			}, nil
		}

		if !frame.Valid() {
			continue
		}
		lm := frame.Landmarks

		// Foot touchdown: raised ankle within tolerance of ground level.
		// Y increases downward, so "at or below" is >=.
		if lm[raisedIdx].Y >= groundLevel-touchdownTol {
			return Outcome{Duration: frame.Timestamp, Reason: ReasonFootTouchdown, FrameIndex: i}, nil
		}

		// Support foot displacement from its initial position.
		dx := lm[supportIdx].X - baseline.x
		dy := lm[supportIdx].Y - baseline.y
		if math.Hypot(dx, dy) > supportThresh {
			return Outcome{Duration: frame.Timestamp, Reason: ReasonSupportFootMoved, FrameIndex: i}, nil
		}

		// Either wrist too far (vertically) from its same-side hip.
		leftDist := math.Abs(lm[pose.LeftWrist].Y - lm[pose.LeftHip].Y)
		rightDist := math.Abs(lm[pose.RightWrist].Y - lm[pose.RightHip].Y)
		if leftDist > handsThresh || rightDist > handsThresh {
			return Outcome{Duration: frame.Timestamp, Reason: ReasonHandsLeftHips, FrameIndex: i}, nil
		}
	}

	last := len(traj.Frames) - 1
	lastTS := traj.Frames[last].Timestamp
	frameInterval := 1.0 / cfg.GetNominalFPS()
	if lastTS >= params.MaxDuration-frameInterval {
		return Outcome{
			Duration:   params.MaxDuration,
			Reason:     ReasonTimeComplete,
			FrameIndex: last,
		}, nil
	}

	return Outcome{}, fmt.Errorf("%w: recording ends at %.2fs of %.2fs",
		ErrTruncatedRecording, lastTS, params.MaxDuration)
}
