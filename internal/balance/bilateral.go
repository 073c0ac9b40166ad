package balance

import (
	"math"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/units"
)

// DominantLeg classifies which side held meaningfully longer.
type DominantLeg string

const (
	DominantLeft     DominantLeg = "left"
	DominantRight    DominantLeg = "right"
	DominantBalanced DominantLeg = "balanced"
)

// SymmetryAssessment buckets the overall symmetry score.
type SymmetryAssessment string

const (
	SymmetryExcellent SymmetryAssessment = "excellent"
	SymmetryGood      SymmetryAssessment = "good"
	SymmetryFair      SymmetryAssessment = "fair"
	SymmetryPoor      SymmetryAssessment = "poor"
)

// Comparison is the bilateral symmetry record derived from two
// completed single-leg analyses. Deltas are rounded for presentation
// stability; CorrectionsDifference is signed (left minus right), not
// absolute.
type Comparison struct {
	DurationDifference    float64            `json:"duration_difference"`     // seconds
	DurationDifferencePct float64            `json:"duration_difference_pct"` // 0-100
	DominantLeg           DominantLeg        `json:"dominant_leg"`
	SwayDifference        float64            `json:"sway_difference"`
	SwaySymmetryScore     float64            `json:"sway_symmetry_score"`  // 0-1
	ArmAngleDifference    float64            `json:"arm_angle_difference"` // degrees
	CorrectionsDifference int                `json:"corrections_difference"`
	OverallSymmetryScore  float64            `json:"overall_symmetry_score"` // 0-100
	SymmetryAssessment    SymmetryAssessment `json:"symmetry_assessment"`
}

// balancedThresholdPct is the duration-difference percentage below
// which neither leg counts as dominant.
const balancedThresholdPct = 20.0

// Compare joins two completed single-leg results into a bilateral
// symmetry analysis. Pure function: swapping the left and right inputs
// flips DominantLeg and the sign of CorrectionsDifference but leaves
// OverallSymmetryScore unchanged.
func Compare(leftDuration float64, left Metrics, rightDuration float64, right Metrics, cfg *config.TuningConfig) Comparison {
	// Duration: absolute gap and gap as a share of the longer hold.
	durationDiff := math.Abs(leftDuration - rightDuration)
	maxDuration := math.Max(leftDuration, rightDuration)
	durationDiffPct := 0.0
	if maxDuration > 0 {
		durationDiffPct = durationDiff / maxDuration * 100
	}

	dominant := DominantBalanced
	if durationDiffPct >= balancedThresholdPct {
		if leftDuration > rightDuration {
			dominant = DominantLeft
		} else {
			dominant = DominantRight
		}
	}

	// Sway: symmetry relative to the average velocity; two perfectly
	// still legs are perfectly symmetric.
	swayDiff := math.Abs(left.SwayVelocity - right.SwayVelocity)
	avgSway := (left.SwayVelocity + right.SwayVelocity) / 2
	swaySymmetry := 1.0
	if avgSway > 0 {
		swaySymmetry = 1.0 - math.Min(swayDiff/avgSway, 1.0)
	}

	// Arm: compare the two-sided average excursion between legs, not
	// left-vs-right within a leg.
	leftArmAvg := (left.ArmExcursionLeft + left.ArmExcursionRight) / 2
	rightArmAvg := (right.ArmExcursionLeft + right.ArmExcursionRight) / 2
	armDiff := math.Abs(leftArmAvg - rightArmAvg)

	correctionsDiff := left.CorrectionsCount - right.CorrectionsCount

	// Overall blend: 50% duration, 30% sway, 10% arm, 10% corrections.
	durationSymPct := math.Max(0, 100-durationDiffPct)
	swaySymPct := swaySymmetry * 100
	armSymPct := math.Max(0, 100-(armDiff/cfg.GetArmAngleDiffMax()*100))
	correctionsSymPct := math.Max(0, 100-(math.Abs(float64(correctionsDiff))/cfg.GetCorrectionsDiffMax()*100))

	overall := units.Clamp(
		durationSymPct*0.5+swaySymPct*0.3+armSymPct*0.1+correctionsSymPct*0.1,
		0, 100)

	var assessment SymmetryAssessment
	switch {
	case overall >= 85:
		assessment = SymmetryExcellent
	case overall >= 70:
		assessment = SymmetryGood
	case overall >= 50:
		assessment = SymmetryFair
	default:
		assessment = SymmetryPoor
	}

	return Comparison{
		DurationDifference:    units.Round1(durationDiff),
		DurationDifferencePct: units.Round1(durationDiffPct),
		DominantLeg:           dominant,
		SwayDifference:        units.Round1(swayDiff),
		SwaySymmetryScore:     units.Round2(swaySymmetry),
		ArmAngleDifference:    units.Round1(armDiff),
		CorrectionsDifference: correctionsDiff,
		OverallSymmetryScore:  units.Round1(overall),
		SymmetryAssessment:    assessment,
	}
}
