package balance

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/pose"
)

// Metrics is the postural-quality bundle computed once per trajectory.
// Sway values are in normalized coordinate units, arm excursions in
// degrees. All values are raw (unnormalized); the stability scorer does
// the reference scaling.
type Metrics struct {
	SwayStdX          float64 `json:"sway_std_x"`
	SwayStdY          float64 `json:"sway_std_y"`
	SwayPathLength    float64 `json:"sway_path_length"`
	SwayVelocity      float64 `json:"sway_velocity"`
	ArmExcursionLeft  float64 `json:"arm_excursion_left"`
	ArmExcursionRight float64 `json:"arm_excursion_right"`
	ArmAsymmetryRatio float64 `json:"arm_asymmetry_ratio"`
	CorrectionsCount  int     `json:"corrections_count"`
}

// ComputeMetrics derives the postural metrics bundle from the filtered
// hip trajectory, the raw per-frame landmarks behind it, and the
// detected test duration. Degenerate inputs (fewer than two valid
// frames, zero duration) yield a well-defined zero bundle, never an
// error.
func ComputeMetrics(ft *FilteredTrajectory, duration float64, cfg *config.TuningConfig) Metrics {
	if len(ft.X) < 2 {
		return Metrics{ArmAsymmetryRatio: 1.0}
	}

	m := Metrics{
		SwayStdX:       stat.PopStdDev(ft.X, nil),
		SwayStdY:       stat.PopStdDev(ft.Y, nil),
		SwayPathLength: pathLength(ft.X, ft.Y),
	}
	if duration > 0 {
		m.SwayVelocity = m.SwayPathLength / duration
	}

	m.ArmExcursionLeft = armExcursion(ft.Frames, pose.LeftShoulder, pose.LeftWrist)
	m.ArmExcursionRight = armExcursion(ft.Frames, pose.RightShoulder, pose.RightWrist)
	m.ArmAsymmetryRatio = asymmetryRatio(m.ArmExcursionLeft, m.ArmExcursionRight, cfg.GetArmAsymmetryCap())

	m.CorrectionsCount = countCorrections(ft.X, cfg.GetCorrectionThreshold())

	return m
}

// pathLength sums consecutive Euclidean step distances along the
// filtered sway curve.
func pathLength(x, y []float64) float64 {
	total := 0.0
	for i := 1; i < len(x); i++ {
		total += math.Hypot(x[i]-x[i-1], y[i]-y[i-1])
	}
	return total
}

// armExcursion accumulates the absolute frame-to-frame angle change of
// the shoulder-to-wrist vector, in degrees, across consecutive valid
// frame pairs. Angle deltas are wrapped to (-180, 180] so a vector
// crossing the ±180° seam is not counted as a full revolution.
func armExcursion(frames []pose.Frame, shoulderIdx, wristIdx int) float64 {
	total := 0.0
	havePrev := false
	prevAngle := 0.0
	for i := range frames {
		s := frames[i].Landmarks[shoulderIdx]
		w := frames[i].Landmarks[wristIdx]
		angle := math.Atan2(w.Y-s.Y, w.X-s.X) * 180 / math.Pi
		if havePrev {
			delta := angle - prevAngle
			for delta > 180 {
				delta -= 360
			}
			for delta <= -180 {
				delta += 360
			}
			total += math.Abs(delta)
		}
		prevAngle = angle
		havePrev = true
	}
	return total
}

// asymmetryRatio is left/right with the edge-case policy applied
// everywhere: 1.0 when both excursions are zero, and a finite cap
// sentinel when only the right is zero. A true Inf would poison JSON
// encoding and downstream arithmetic.
func asymmetryRatio(left, right, limit float64) float64 {
	if right == 0 {
		if left == 0 {
			return 1.0
		}
		return limit
	}
	return left / right
}

// countCorrections counts departure-then-return pairs: each time the
// hip x series moves beyond the threshold from the series mean and then
// comes back inside counts once, on the return. Crossing edges alone do
// not count.
func countCorrections(x []float64, threshold float64) int {
	center := stat.Mean(x, nil)
	corrections := 0
	outside := false
	for _, v := range x {
		deviation := math.Abs(v - center)
		if !outside && deviation > threshold {
			outside = true
		} else if outside && deviation < threshold {
			corrections++
			outside = false
		}
	}
	return corrections
}
