package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds the calibration knobs for the balance analysis
// engine. The schema matches the /api/params endpoint so the same JSON
// serves startup configuration and runtime inspection. All values are
// fixed calibration constants, never learned at runtime.
type TuningConfig struct {
	// Preprocessor params
	FilterCutoffHz *float64 `json:"filter_cutoff_hz,omitempty"`
	NominalFPS     *float64 `json:"nominal_fps,omitempty"`
	MinValidFrames *int     `json:"min_valid_frames,omitempty"`

	// Failure detector params (normalized frame fractions)
	MaxTestDuration       *float64 `json:"max_test_duration,omitempty"` // seconds
	TouchdownTolerance    *float64 `json:"touchdown_tolerance,omitempty"`
	SupportFootThreshold  *float64 `json:"support_foot_threshold,omitempty"`
	HandsOffHipsThreshold *float64 `json:"hands_off_hips_threshold,omitempty"`
	BaselineFrames        *int     `json:"baseline_frames,omitempty"`

	// Metrics params
	CorrectionThreshold *float64 `json:"correction_threshold,omitempty"`
	ArmAsymmetryCap     *float64 `json:"arm_asymmetry_cap,omitempty"`

	// Stability score reference maxima ("worst case" scaling constants)
	SwayStdMax      *float64 `json:"sway_std_max,omitempty"`
	SwayVelocityMax *float64 `json:"sway_velocity_max,omitempty"`
	ArmExcursionMax *float64 `json:"arm_excursion_max,omitempty"` // degrees
	CorrectionsMax  *float64 `json:"corrections_max,omitempty"`

	// Stability score weights (must sum to 1.0)
	WeightSwayStd      *float64 `json:"weight_sway_std,omitempty"`
	WeightSwayVelocity *float64 `json:"weight_sway_velocity,omitempty"`
	WeightArmExcursion *float64 `json:"weight_arm_excursion,omitempty"`
	WeightCorrections  *float64 `json:"weight_corrections,omitempty"`

	// Bilateral comparison caps
	ArmAngleDiffMax    *float64 `json:"arm_angle_diff_max,omitempty"` // degrees
	CorrectionsDiffMax *float64 `json:"corrections_diff_max,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// Fields omitted from the JSON retain their built-in defaults, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and common parent
// directories. Panics if the file cannot be loaded; intended for test
// setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.FilterCutoffHz != nil && *c.FilterCutoffHz <= 0 {
		return fmt.Errorf("filter_cutoff_hz must be positive, got %f", *c.FilterCutoffHz)
	}
	if c.NominalFPS != nil && *c.NominalFPS <= 0 {
		return fmt.Errorf("nominal_fps must be positive, got %f", *c.NominalFPS)
	}
	if c.MaxTestDuration != nil && *c.MaxTestDuration <= 0 {
		return fmt.Errorf("max_test_duration must be positive, got %f", *c.MaxTestDuration)
	}
	if c.MinValidFrames != nil && *c.MinValidFrames < 2 {
		return fmt.Errorf("min_valid_frames must be at least 2, got %d", *c.MinValidFrames)
	}
	if c.ArmAsymmetryCap != nil && *c.ArmAsymmetryCap < 1 {
		return fmt.Errorf("arm_asymmetry_cap must be at least 1, got %f", *c.ArmAsymmetryCap)
	}

	// Weights must sum to 1.0 when all four are specified.
	if c.WeightSwayStd != nil && c.WeightSwayVelocity != nil &&
		c.WeightArmExcursion != nil && c.WeightCorrections != nil {
		sum := *c.WeightSwayStd + *c.WeightSwayVelocity + *c.WeightArmExcursion + *c.WeightCorrections
		if sum < 0.999 || sum > 1.001 {
			return fmt.Errorf("stability weights must sum to 1.0, got %f", sum)
		}
	}

	return nil
}

// GetFilterCutoffHz returns the filter_cutoff_hz value or the default.
func (c *TuningConfig) GetFilterCutoffHz() float64 {
	if c.FilterCutoffHz == nil {
		return 6.0
	}
	return *c.FilterCutoffHz
}

// GetNominalFPS returns the nominal_fps value or the default.
func (c *TuningConfig) GetNominalFPS() float64 {
	if c.NominalFPS == nil {
		return 30.0
	}
	return *c.NominalFPS
}

// GetMinValidFrames returns the min_valid_frames value or the default.
func (c *TuningConfig) GetMinValidFrames() int {
	if c.MinValidFrames == nil {
		return 10
	}
	return *c.MinValidFrames
}

// GetMaxTestDuration returns the max_test_duration value or the default.
func (c *TuningConfig) GetMaxTestDuration() float64 {
	if c.MaxTestDuration == nil {
		return 20.0
	}
	return *c.MaxTestDuration
}

// GetTouchdownTolerance returns the touchdown_tolerance value or the default.
func (c *TuningConfig) GetTouchdownTolerance() float64 {
	if c.TouchdownTolerance == nil {
		return 0.05
	}
	return *c.TouchdownTolerance
}

// GetSupportFootThreshold returns the support_foot_threshold value or the default.
func (c *TuningConfig) GetSupportFootThreshold() float64 {
	if c.SupportFootThreshold == nil {
		return 0.15
	}
	return *c.SupportFootThreshold
}

// GetHandsOffHipsThreshold returns the hands_off_hips_threshold value or the default.
func (c *TuningConfig) GetHandsOffHipsThreshold() float64 {
	if c.HandsOffHipsThreshold == nil {
		return 0.10
	}
	return *c.HandsOffHipsThreshold
}

// GetBaselineFrames returns the baseline_frames value or the default.
func (c *TuningConfig) GetBaselineFrames() int {
	if c.BaselineFrames == nil {
		return 10
	}
	return *c.BaselineFrames
}

// GetCorrectionThreshold returns the correction_threshold value or the default.
func (c *TuningConfig) GetCorrectionThreshold() float64 {
	if c.CorrectionThreshold == nil {
		return 0.02
	}
	return *c.CorrectionThreshold
}

// GetArmAsymmetryCap returns the arm_asymmetry_cap value or the default.
func (c *TuningConfig) GetArmAsymmetryCap() float64 {
	if c.ArmAsymmetryCap == nil {
		return 10.0
	}
	return *c.ArmAsymmetryCap
}

// GetSwayStdMax returns the sway_std_max value or the default.
func (c *TuningConfig) GetSwayStdMax() float64 {
	if c.SwayStdMax == nil {
		return 0.05
	}
	return *c.SwayStdMax
}

// GetSwayVelocityMax returns the sway_velocity_max value or the default.
func (c *TuningConfig) GetSwayVelocityMax() float64 {
	if c.SwayVelocityMax == nil {
		return 0.5
	}
	return *c.SwayVelocityMax
}

// GetArmExcursionMax returns the arm_excursion_max value or the default.
func (c *TuningConfig) GetArmExcursionMax() float64 {
	if c.ArmExcursionMax == nil {
		return 360.0
	}
	return *c.ArmExcursionMax
}

// GetCorrectionsMax returns the corrections_max value or the default.
func (c *TuningConfig) GetCorrectionsMax() float64 {
	if c.CorrectionsMax == nil {
		return 10.0
	}
	return *c.CorrectionsMax
}

// GetWeightSwayStd returns the weight_sway_std value or the default.
func (c *TuningConfig) GetWeightSwayStd() float64 {
	if c.WeightSwayStd == nil {
		return 0.3
	}
	return *c.WeightSwayStd
}

// GetWeightSwayVelocity returns the weight_sway_velocity value or the default.
func (c *TuningConfig) GetWeightSwayVelocity() float64 {
	if c.WeightSwayVelocity == nil {
		return 0.3
	}
	return *c.WeightSwayVelocity
}

// GetWeightArmExcursion returns the weight_arm_excursion value or the default.
func (c *TuningConfig) GetWeightArmExcursion() float64 {
	if c.WeightArmExcursion == nil {
		return 0.2
	}
	return *c.WeightArmExcursion
}

// GetWeightCorrections returns the weight_corrections value or the default.
func (c *TuningConfig) GetWeightCorrections() float64 {
	if c.WeightCorrections == nil {
		return 0.2
	}
	return *c.WeightCorrections
}

// GetArmAngleDiffMax returns the arm_angle_diff_max value or the default.
func (c *TuningConfig) GetArmAngleDiffMax() float64 {
	if c.ArmAngleDiffMax == nil {
		return 15.0
	}
	return *c.ArmAngleDiffMax
}

// GetCorrectionsDiffMax returns the corrections_diff_max value or the default.
func (c *TuningConfig) GetCorrectionsDiffMax() float64 {
	if c.CorrectionsDiffMax == nil {
		return 5.0
	}
	return *c.CorrectionsDiffMax
}
