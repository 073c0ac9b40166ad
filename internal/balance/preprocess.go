package balance

import (
	"fmt"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/pose"
)

// FilteredTrajectory is the preprocessor output: the low-pass-filtered
// hip-midpoint series, the timestamps of the valid frames behind it,
// and those frames themselves for consumers that need raw wrist,
// shoulder, or hip landmarks. Frames with absent landmarks are skipped
// when the series is built, so X, Y, Timestamps, and Frames are all the
// same length and index-aligned.
type FilteredTrajectory struct {
	X          []float64
	Y          []float64
	Timestamps []float64
	Frames     []pose.Frame
	SampleRate float64
}

// Preprocess extracts the hip-midpoint trajectory from a raw landmark
// stream and smooths it with a zero-phase Butterworth low-pass filter
// to suppress detection jitter. Returns ErrInsufficientData when fewer
// than the configured minimum of valid frames are present. Pure
// transform: the input trajectory is not modified.
func Preprocess(traj *pose.Trajectory, cfg *config.TuningConfig) (*FilteredTrajectory, error) {
	valid := make([]pose.Frame, 0, len(traj.Frames))
	for i := range traj.Frames {
		if traj.Frames[i].Valid() {
			valid = append(valid, traj.Frames[i])
		}
	}

	if minFrames := cfg.GetMinValidFrames(); len(valid) < minFrames {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrInsufficientData, len(valid), minFrames)
	}

	n := len(valid)
	hipX := make([]float64, n)
	hipY := make([]float64, n)
	timestamps := make([]float64, n)
	for i := range valid {
		lh := valid[i].Landmarks[pose.LeftHip]
		rh := valid[i].Landmarks[pose.RightHip]
		hipX[i] = (lh.X + rh.X) / 2
		hipY[i] = (lh.Y + rh.Y) / 2
		timestamps[i] = valid[i].Timestamp
	}

	fs := traj.ObservedSampleRate()
	if fs <= 0 {
		fs = cfg.GetNominalFPS()
	}
	cutoff := cfg.GetFilterCutoffHz()

	return &FilteredTrajectory{
		X:          LowPassFilter(hipX, cutoff, fs),
		Y:          LowPassFilter(hipY, cutoff, fs),
		Timestamps: timestamps,
		Frames:     valid,
		SampleRate: fs,
	}, nil
}
