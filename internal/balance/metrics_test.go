package balance

import (
	"math"
	"testing"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/pose"
	"github.com/stance-data/balance.report/internal/testutil"
)

func TestComputeMetricsDegenerate(t *testing.T) {
	cfg := config.EmptyTuningConfig()

	tests := []struct {
		name string
		ft   *FilteredTrajectory
	}{
		{"empty", &FilteredTrajectory{}},
		{"single point", &FilteredTrajectory{
			X: []float64{0.5}, Y: []float64{0.5}, Timestamps: []float64{0},
			Frames: []pose.Frame{testutil.StanceFrame(0, 0)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.ft, 0, cfg)
			if m.SwayStdX != 0 || m.SwayPathLength != 0 || m.CorrectionsCount != 0 {
				t.Errorf("degenerate input produced nonzero sway metrics: %+v", m)
			}
			if m.ArmAsymmetryRatio != 1.0 {
				t.Errorf("ArmAsymmetryRatio = %v, want 1.0", m.ArmAsymmetryRatio)
			}
		})
	}
}

func TestComputeMetricsStillSubject(t *testing.T) {
	traj := testutil.SteadyTrajectory(5, 0)
	ft, err := Preprocess(traj, config.EmptyTuningConfig())
	testutil.AssertNoError(t, err)

	m := ComputeMetrics(ft, 5, config.EmptyTuningConfig())

	if m.SwayStdX > 1e-9 || m.SwayStdY > 1e-9 {
		t.Errorf("still subject has sway std (%v, %v), want 0", m.SwayStdX, m.SwayStdY)
	}
	if m.SwayPathLength > 1e-9 || m.SwayVelocity > 1e-9 {
		t.Errorf("still subject has path %v velocity %v, want 0", m.SwayPathLength, m.SwayVelocity)
	}
	if m.ArmExcursionLeft > 1e-9 || m.ArmExcursionRight > 1e-9 {
		t.Errorf("static arms have excursion (%v, %v), want 0", m.ArmExcursionLeft, m.ArmExcursionRight)
	}
	if m.ArmAsymmetryRatio != 1.0 {
		t.Errorf("ArmAsymmetryRatio = %v, want 1.0 for two zero excursions", m.ArmAsymmetryRatio)
	}
	if m.CorrectionsCount != 0 {
		t.Errorf("CorrectionsCount = %d, want 0", m.CorrectionsCount)
	}
}

func TestComputeMetricsSwayingSubject(t *testing.T) {
	traj := testutil.SteadyTrajectory(5, 0.03)
	ft, err := Preprocess(traj, config.EmptyTuningConfig())
	testutil.AssertNoError(t, err)

	m := ComputeMetrics(ft, 5, config.EmptyTuningConfig())

	if m.SwayStdX <= 0 {
		t.Errorf("SwayStdX = %v, want > 0 for a swaying subject", m.SwayStdX)
	}
	if m.SwayPathLength <= 0 {
		t.Errorf("SwayPathLength = %v, want > 0", m.SwayPathLength)
	}
	wantVel := m.SwayPathLength / 5
	if math.Abs(m.SwayVelocity-wantVel) > 1e-9 {
		t.Errorf("SwayVelocity = %v, want path/duration = %v", m.SwayVelocity, wantVel)
	}
	// 0.03 amplitude crosses the 0.02 correction threshold twice per
	// cycle at 0.5 Hz over 5 s.
	if m.CorrectionsCount == 0 {
		t.Error("CorrectionsCount = 0, want > 0 for oscillation beyond the threshold")
	}
}

func TestPathLength(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"two points", []float64{0, 3}, []float64{0, 4}, 5},
		{"straight line", []float64{0, 1, 2}, []float64{0, 0, 0}, 2},
		{"single point", []float64{1}, []float64{1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pathLength(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("pathLength = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArmExcursionWrapsAngleSeam(t *testing.T) {
	// Shoulder fixed at origin, wrist swinging from 179° to -179°: the
	// physical motion is 2°, not 358°.
	frames := make([]pose.Frame, 2)
	for i, deg := range []float64{179, -179} {
		lm := make([]*pose.Landmark, pose.LandmarkCount)
		for j := range lm {
			lm[j] = &pose.Landmark{Visibility: 1.0}
		}
		rad := deg * math.Pi / 180
		lm[pose.LeftShoulder] = &pose.Landmark{X: 0, Y: 0, Visibility: 1.0}
		lm[pose.LeftWrist] = &pose.Landmark{X: math.Cos(rad), Y: math.Sin(rad), Visibility: 1.0}
		frames[i] = pose.Frame{Timestamp: float64(i) / 30, Landmarks: lm}
	}

	got := armExcursion(frames, pose.LeftShoulder, pose.LeftWrist)
	if math.Abs(got-2.0) > 1e-6 {
		t.Errorf("armExcursion = %v, want 2.0", got)
	}
}

func TestArmExcursionAccumulates(t *testing.T) {
	// Wrist rotating 10° per frame for 5 steps: 50° total.
	frames := make([]pose.Frame, 6)
	for i := range frames {
		lm := make([]*pose.Landmark, pose.LandmarkCount)
		for j := range lm {
			lm[j] = &pose.Landmark{Visibility: 1.0}
		}
		rad := float64(i) * 10 * math.Pi / 180
		lm[pose.RightShoulder] = &pose.Landmark{Visibility: 1.0}
		lm[pose.RightWrist] = &pose.Landmark{X: math.Cos(rad), Y: math.Sin(rad), Visibility: 1.0}
		frames[i] = pose.Frame{Timestamp: float64(i) / 30, Landmarks: lm}
	}

	got := armExcursion(frames, pose.RightShoulder, pose.RightWrist)
	if math.Abs(got-50.0) > 1e-6 {
		t.Errorf("armExcursion = %v, want 50.0", got)
	}
}

func TestAsymmetryRatio(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		want        float64
	}{
		{"equal", 30, 30, 1.0},
		{"left double", 60, 30, 2.0},
		{"left half", 15, 30, 0.5},
		{"both zero", 0, 0, 1.0},
		{"right zero", 45, 0, 10.0}, // capped, not Inf
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asymmetryRatio(tt.left, tt.right, 10.0); got != tt.want {
				t.Errorf("asymmetryRatio(%v, %v) = %v, want %v", tt.left, tt.right, got, tt.want)
			}
		})
	}
}

func TestCountCorrections(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want int
	}{
		{"flat series", []float64{0.5, 0.5, 0.5, 0.5}, 0},
		{"two excursions with returns", []float64{0, 0, 0, 0.05, 0, 0, -0.05, 0, 0}, 2},
		{"excursion without return", []float64{0, 0, 0, 0, 0, 0, 0, 0, 0.09}, 0},
		{"within threshold", []float64{0, 0.01, -0.01, 0.01, -0.01, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countCorrections(tt.x, 0.02); got != tt.want {
				t.Errorf("countCorrections = %d, want %d", got, tt.want)
			}
		})
	}
}
