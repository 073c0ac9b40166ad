package balance

import (
	"fmt"
	"math"

	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/units"
)

// StabilityScore collapses a metrics bundle into a single 0-100
// composite. Each of the four inputs is normalized to [0,1] against a
// fixed reference "worst case" constant and clamped, then blended with
// fixed weights summing to 1.0. Bad is high before the final inversion,
// so the returned score is higher-is-better. This is reference scaling,
// not population normalization: the constants are calibration knobs.
func StabilityScore(m Metrics, cfg *config.TuningConfig) float64 {
	normSway := math.Min(math.Max(m.SwayStdX, m.SwayStdY)/cfg.GetSwayStdMax(), 1.0)
	normVelocity := math.Min(m.SwayVelocity/cfg.GetSwayVelocityMax(), 1.0)
	avgExcursion := (m.ArmExcursionLeft + m.ArmExcursionRight) / 2
	normArm := math.Min(avgExcursion/cfg.GetArmExcursionMax(), 1.0)
	normCorrections := math.Min(float64(m.CorrectionsCount)/cfg.GetCorrectionsMax(), 1.0)

	weighted := cfg.GetWeightSwayStd()*normSway +
		cfg.GetWeightSwayVelocity()*normVelocity +
		cfg.GetWeightArmExcursion()*normArm +
		cfg.GetWeightCorrections()*normCorrections

	return units.Clamp((1-weighted)*100, 0, 100)
}

// Tier is one row of the duration scoring table. Min is inclusive and
// Max exclusive; the top tier's Max is +Inf.
type Tier struct {
	Score int
	Label string
	Min   float64
	Max   float64
}

// durationTiers maps hold duration to the 1-5 developmental scale.
var durationTiers = []Tier{
	{Score: 1, Label: "Beginning", Min: 0, Max: 10},
	{Score: 2, Label: "Developing", Min: 10, Max: 15},
	{Score: 3, Label: "Competent", Min: 15, Max: 20},
	{Score: 4, Label: "Proficient", Min: 20, Max: 25},
	{Score: 5, Label: "Advanced", Min: 25, Max: math.Inf(1)},
}

// ageBand maps an inclusive age range to the tier expected at that age.
type ageBand struct {
	minAge, maxAge int
	expected       int
}

var ageExpectations = []ageBand{
	{5, 6, 1},
	{7, 7, 2},
	{8, 9, 3},
	{10, 11, 4},
	{12, 14, 5},
}

func init() {
	if err := validateTiers(durationTiers); err != nil {
		panic(err)
	}
}

// validateTiers enforces the construction-time invariant: tiers must
// tile [0, +Inf) with no gaps or overlaps and carry consecutive
// ordinals starting at 1.
func validateTiers(tiers []Tier) error {
	if len(tiers) == 0 {
		return fmt.Errorf("duration tier table is empty")
	}
	if tiers[0].Min != 0 {
		return fmt.Errorf("duration tiers must start at 0, got %f", tiers[0].Min)
	}
	for i, t := range tiers {
		if t.Score != i+1 {
			return fmt.Errorf("duration tier %d has ordinal %d, want %d", i, t.Score, i+1)
		}
		if t.Max <= t.Min {
			return fmt.Errorf("duration tier %d has empty range [%f,%f)", i, t.Min, t.Max)
		}
		if i > 0 && t.Min != tiers[i-1].Max {
			return fmt.Errorf("duration tiers have a gap between %f and %f", tiers[i-1].Max, t.Min)
		}
	}
	if !math.IsInf(tiers[len(tiers)-1].Max, 1) {
		return fmt.Errorf("top duration tier must be open-ended")
	}
	return nil
}

// Expectation is the verdict comparing a scored tier against the tier
// expected for the athlete's age.
type Expectation string

const (
	ExpectationBelow Expectation = "below"
	ExpectationMeets Expectation = "meets"
	ExpectationAbove Expectation = "above"
)

// DurationScore is the ordinal tier result for one test.
type DurationScore struct {
	Score         int         `json:"score"` // 1-5
	Label         string      `json:"label"`
	Expectation   Expectation `json:"expectation"`
	ExpectedScore int         `json:"expected_score"`
}

// ScoreDuration maps a hold duration (seconds) onto the tier table and
// grades it against the expectation for the given age. Negative
// durations clamp to tier 1; ages outside the known bands grade as
// "meets" with the actual score echoed as expected.
func ScoreDuration(duration float64, age int) DurationScore {
	tier := durationTiers[0]
	for _, t := range durationTiers {
		if duration >= t.Min && duration < t.Max {
			tier = t
			break
		}
	}

	ds := DurationScore{
		Score:         tier.Score,
		Label:         tier.Label,
		Expectation:   ExpectationMeets,
		ExpectedScore: tier.Score,
	}

	for _, band := range ageExpectations {
		if age >= band.minAge && age <= band.maxAge {
			ds.ExpectedScore = band.expected
			switch {
			case tier.Score > band.expected:
				ds.Expectation = ExpectationAbove
			case tier.Score < band.expected:
				ds.Expectation = ExpectationBelow
			default:
				ds.Expectation = ExpectationMeets
			}
			break
		}
	}

	return ds
}
