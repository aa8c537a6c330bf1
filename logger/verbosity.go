package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: results, warnings and errors only
	VerbosityInfo  = 1 // -v: + job progress, startup details
	VerbosityDebug = 2 // -vv: + store queries, timing, config details
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels.
//
// Mapping:
//
//	0 (none) -> InfoLevel
//	1 (-v)   -> DebugLevel
//	2+ (-vv) -> DebugLevel
//
// The daemon logs its tick activity at info level, so the default is Info
// rather than Warn: a silent scheduler is indistinguishable from a stuck one.
func VerbosityToLevel(verbosity int) zapcore.Level {
	if verbosity >= VerbosityInfo {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}
