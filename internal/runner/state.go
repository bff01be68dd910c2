package runner

// State is a stage of a validation run.
type State int

// Run states. A run moves Start → Scanning → (NoFilesFound | Validating)
// → (AllPassed | ValidationFailed). A fatal error leaves the run in the
// state where it occurred.
const (
	StateStart State = iota
	StateScanning
	StateNoFilesFound
	StateValidating
	StateAllPassed
	StateValidationFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateScanning:
		return "scanning"
	case StateNoFilesFound:
		return "no-files-found"
	case StateValidating:
		return "validating"
	case StateAllPassed:
		return "all-passed"
	case StateValidationFailed:
		return "validation-failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run successfully or with a validation
// failure.
func (s State) Terminal() bool {
	switch s {
	case StateNoFilesFound, StateAllPassed, StateValidationFailed:
		return true
	default:
		return false
	}
}

// Mode controls how violations affect the run.
type Mode string

const (
	// ModeEnforce stops the run at the first file with violations.
	ModeEnforce Mode = "enforce"
	// ModeWarn reports violations as warnings and keeps going.
	ModeWarn Mode = "warn"
)

// ValidMode reports whether m names a supported mode.
func ValidMode(m string) bool {
	return Mode(m) == ModeEnforce || Mode(m) == ModeWarn
}
