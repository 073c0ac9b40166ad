// Package balance implements the single-leg balance test analysis
// engine: trajectory preprocessing, failure detection, postural
// metrics, stability and duration-tier scoring, and bilateral
// left/right comparison. Every component is a pure function of its
// inputs; re-running an identical trajectory yields bit-identical
// output.
package balance

import (
	"fmt"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/monitoring"
	"github.com/stance-data/balance.report/internal/pose"
	"github.com/stance-data/balance.report/internal/units"
)

// Result is the complete single-leg analysis artifact. Created once per
// test attempt and never updated in place; a re-analysis produces a new
// Result.
type Result struct {
	Leg            pose.Side     `json:"leg"`
	Outcome        Outcome       `json:"outcome"`
	Metrics        Metrics       `json:"metrics"`
	StabilityScore float64       `json:"stability_score"` // 0-100
	DurationScore  DurationScore `json:"duration_score"`
}

// Analyzer runs the full analysis pipeline under one tuning config.
// Analyzers are stateless and safe for concurrent use; two legs of a
// bilateral session can be analyzed in parallel with no coordination.
type Analyzer struct {
	cfg *config.TuningConfig
}

// NewAnalyzer returns an Analyzer using the given tuning config, or the
// built-in defaults when cfg is nil.
func NewAnalyzer(cfg *config.TuningConfig) *Analyzer {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Analyzer{cfg: cfg}
}

// Analyze runs the pipeline over one trajectory: preprocess, detect the
// terminal event, compute postural metrics over the detected duration,
// then score. Precondition violations surface as the named errors in
// this package; degenerate-but-valid inputs produce well-defined zero
// outputs.
func (a *Analyzer) Analyze(traj *pose.Trajectory, params pose.SessionParams) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session params: %w", err)
	}
	if err := traj.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trajectory: %w", err)
	}

	filtered, err := Preprocess(traj, a.cfg)
	if err != nil {
		return nil, err
	}

	outcome, err := DetectFailure(traj, params, a.cfg)
	if err != nil {
		return nil, err
	}

	// Metrics only cover the portion of the trajectory inside the
	// detected duration; frames after the terminal event describe the
	// athlete recovering, not balancing.
	truncated := filtered.truncate(outcome.Duration)
	metrics := ComputeMetrics(truncated, outcome.Duration, a.cfg)

	result := &Result{
		Leg:            params.StandingLeg,
		Outcome:        outcome,
		Metrics:        roundMetrics(metrics),
		StabilityScore: units.Round2(StabilityScore(metrics, a.cfg)),
		DurationScore:  ScoreDuration(outcome.Duration, params.AthleteAge),
	}

	monitoring.Logf("analysis complete: leg=%s duration=%s reason=%s stability=%.1f tier=%d",
		params.StandingLeg, units.FormatSeconds(outcome.Duration), outcome.Reason,
		result.StabilityScore, result.DurationScore.Score)

	return result, nil
}

// Compare joins two completed single-leg results into a bilateral
// comparison using this analyzer's tuning config.
func (a *Analyzer) Compare(left, right *Result) Comparison {
	return Compare(left.Outcome.Duration, left.Metrics, right.Outcome.Duration, right.Metrics, a.cfg)
}

// truncate returns the prefix of the filtered trajectory whose
// timestamps fall within the detected duration.
func (ft *FilteredTrajectory) truncate(duration float64) *FilteredTrajectory {
	n := len(ft.Timestamps)
	for i, ts := range ft.Timestamps {
		if ts > duration {
			n = i
			break
		}
	}
	return &FilteredTrajectory{
		X:          ft.X[:n],
		Y:          ft.Y[:n],
		Timestamps: ft.Timestamps[:n],
		Frames:     ft.Frames[:n],
		SampleRate: ft.SampleRate,
	}
}

// roundMetrics applies presentation rounding to a bundle. Raw sway
// values keep six decimals (normalized units are small); the asymmetry
// ratio presents at two.
func roundMetrics(m Metrics) Metrics {
	m.SwayStdX = units.Round6(m.SwayStdX)
	m.SwayStdY = units.Round6(m.SwayStdY)
	m.SwayPathLength = units.Round6(m.SwayPathLength)
	m.SwayVelocity = units.Round6(m.SwayVelocity)
	m.ArmExcursionLeft = units.Round2(m.ArmExcursionLeft)
	m.ArmExcursionRight = units.Round2(m.ArmExcursionRight)
	m.ArmAsymmetryRatio = units.Round2(m.ArmAsymmetryRatio)
	return m
}
