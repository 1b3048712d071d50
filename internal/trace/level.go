package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff  Level = iota // no tracing
	LevelRun               // run and file boundaries
	LevelPass              // file passes
	LevelFunc              // per-function pipeline stages
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelRun:
		return "run"
	case LevelPass:
		return "pass"
	case LevelFunc:
		return "func"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "off":
		return LevelOff, nil
	case "run":
		return LevelRun, nil
	case "pass":
		return LevelPass, nil
	case "func":
		return LevelFunc, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|run|pass|func)", s)
	}
}

// ShouldEmit reports whether events of the given scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelRun:
		return scope <= ScopeFile
	case LevelPass:
		return scope <= ScopePass
	case LevelFunc:
		return true
	}
	return false
}
