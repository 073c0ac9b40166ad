package balance

import "errors"

// Precondition failures. These are fatal to a single analysis and are
// surfaced to the caller as distinct named errors rather than being
// silently defaulted: a garbage baseline would corrupt every downstream
// metric. The engine never retries; re-requesting a fresh pose trace is
// the caller's call.
var (
	// ErrInsufficientData means the trajectory carries too few valid
	// frames to analyze at all.
	ErrInsufficientData = errors.New("insufficient valid pose frames")

	// ErrNoInitialPose means the standing-foot baseline could not be
	// established from the opening frames.
	ErrNoInitialPose = errors.New("could not establish initial standing-foot position")

	// ErrTruncatedRecording means the trajectory ended before the
	// protocol's maximum duration without any failure condition firing.
	// The source recording is incomplete; labelling it a successful
	// time_complete would mis-score truncated captures.
	ErrTruncatedRecording = errors.New("trajectory ended before max duration with no failure event")
)
