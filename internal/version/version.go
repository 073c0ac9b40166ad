package version

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the full version line used by -version flags and the
// healthz endpoint.
func String() string {
	return Version + " (" + GitSHA + ", built " + BuildTime + ")"
}
