package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/pose"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Assessment is one stored single-leg analysis.
type Assessment struct {
	ID          string          `json:"id"`
	AthleteName string          `json:"athlete_name"`
	AthleteAge  int             `json:"athlete_age"`
	Leg         pose.Side       `json:"leg"`
	CreatedAt   time.Time       `json:"created_at"`
	Result      *balance.Result `json:"result"`
}

// BilateralRecord is one stored left/right comparison with its source
// assessment IDs.
type BilateralRecord struct {
	ID         string             `json:"id"`
	LeftID     string             `json:"left_assessment_id"`
	RightID    string             `json:"right_assessment_id"`
	CreatedAt  time.Time          `json:"created_at"`
	Comparison balance.Comparison `json:"comparison"`
}

// InsertAssessment stores a completed analysis and returns its new ID.
func (db *DB) InsertAssessment(athleteName string, athleteAge int, res *balance.Result) (string, error) {
	id := uuid.NewString()
	m := res.Metrics
	_, err := db.Exec(`
		INSERT INTO assessments (
			id, athlete_name, athlete_age, leg,
			duration, failure_reason, failure_frame,
			sway_std_x, sway_std_y, sway_path_length, sway_velocity,
			arm_excursion_left, arm_excursion_right, arm_asymmetry_ratio, corrections_count,
			stability_score, duration_score, duration_label, expectation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, athleteName, athleteAge, string(res.Leg),
		res.Outcome.Duration, string(res.Outcome.Reason), res.Outcome.FrameIndex,
		m.SwayStdX, m.SwayStdY, m.SwayPathLength, m.SwayVelocity,
		m.ArmExcursionLeft, m.ArmExcursionRight, m.ArmAsymmetryRatio, m.CorrectionsCount,
		res.StabilityScore, res.DurationScore.Score, res.DurationScore.Label, string(res.DurationScore.Expectation),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert assessment: %w", err)
	}
	return id, nil
}

const assessmentColumns = `
	id, athlete_name, athlete_age, leg, created_at,
	duration, failure_reason, failure_frame,
	sway_std_x, sway_std_y, sway_path_length, sway_velocity,
	arm_excursion_left, arm_excursion_right, arm_asymmetry_ratio, corrections_count,
	stability_score, duration_score, duration_label, expectation`

func scanAssessment(row interface{ Scan(...interface{}) error }) (*Assessment, error) {
	a := &Assessment{Result: &balance.Result{}}
	r := a.Result
	var leg, reason, expectation string
	err := row.Scan(
		&a.ID, &a.AthleteName, &a.AthleteAge, &leg, &a.CreatedAt,
		&r.Outcome.Duration, &reason, &r.Outcome.FrameIndex,
		&r.Metrics.SwayStdX, &r.Metrics.SwayStdY, &r.Metrics.SwayPathLength, &r.Metrics.SwayVelocity,
		&r.Metrics.ArmExcursionLeft, &r.Metrics.ArmExcursionRight, &r.Metrics.ArmAsymmetryRatio, &r.Metrics.CorrectionsCount,
		&r.StabilityScore, &r.DurationScore.Score, &r.DurationScore.Label, &expectation,
	)
	if err != nil {
		return nil, err
	}
	a.Leg = pose.Side(leg)
	r.Leg = a.Leg
	r.Outcome.Reason = balance.FailureReason(reason)
	r.DurationScore.Expectation = balance.Expectation(expectation)
	return a, nil
}

// GetAssessment loads one stored analysis by ID.
func (db *DB) GetAssessment(id string) (*Assessment, error) {
	row := db.QueryRow(`SELECT`+assessmentColumns+` FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment %s: %w", id, err)
	}
	return a, nil
}

// ListAssessments returns stored analyses, newest first, up to limit.
func (db *DB) ListAssessments(limit int) ([]*Assessment, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Query(`SELECT`+assessmentColumns+` FROM assessments ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertComparison stores a bilateral comparison tied to its two source
// assessments and returns its new ID.
func (db *DB) InsertComparison(leftID, rightID string, c balance.Comparison) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO bilateral_comparisons (
			id, left_assessment_id, right_assessment_id,
			duration_difference, duration_difference_pct, dominant_leg,
			sway_difference, sway_symmetry_score, arm_angle_difference,
			corrections_difference, overall_symmetry_score, symmetry_assessment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, leftID, rightID,
		c.DurationDifference, c.DurationDifferencePct, string(c.DominantLeg),
		c.SwayDifference, c.SwaySymmetryScore, c.ArmAngleDifference,
		c.CorrectionsDifference, c.OverallSymmetryScore, string(c.SymmetryAssessment),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert comparison: %w", err)
	}
	return id, nil
}

// GetComparison loads one stored bilateral comparison by ID.
func (db *DB) GetComparison(id string) (*BilateralRecord, error) {
	row := db.QueryRow(`
		SELECT id, left_assessment_id, right_assessment_id, created_at,
			duration_difference, duration_difference_pct, dominant_leg,
			sway_difference, sway_symmetry_score, arm_angle_difference,
			corrections_difference, overall_symmetry_score, symmetry_assessment
		FROM bilateral_comparisons WHERE id = ?`, id)

	rec := &BilateralRecord{}
	var dominant, assessment string
	err := row.Scan(
		&rec.ID, &rec.LeftID, &rec.RightID, &rec.CreatedAt,
		&rec.Comparison.DurationDifference, &rec.Comparison.DurationDifferencePct, &dominant,
		&rec.Comparison.SwayDifference, &rec.Comparison.SwaySymmetryScore, &rec.Comparison.ArmAngleDifference,
		&rec.Comparison.CorrectionsDifference, &rec.Comparison.OverallSymmetryScore, &assessment,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comparison %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comparison %s: %w", id, err)
	}
	rec.Comparison.DominantLeg = balance.DominantLeg(dominant)
	rec.Comparison.SymmetryAssessment = balance.SymmetryAssessment(assessment)
	return rec, nil
}
