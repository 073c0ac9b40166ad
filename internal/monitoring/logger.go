// Package monitoring holds the process-wide diagnostic logger used by
// the analysis pipeline and its callers.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to
// log.Printf but may be replaced by SetLogger. Tests can redirect or
// mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// verbose gates Debugf output.
var verbose bool

// SetLogger replaces the package logger. Passing nil sets a no-op
// logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetVerbose toggles per-frame debug logging.
func SetVerbose(v bool) {
	verbose = v
}

// Debugf logs through Logf only when verbose logging is enabled. Used
// for per-frame diagnostics that would otherwise swamp the log.
func Debugf(format string, v ...interface{}) {
	if verbose {
		Logf(format, v...)
	}
}
