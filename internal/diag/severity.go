package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	SevHint Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
	// SevFatal marks diagnostics after which the producer could not continue.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevHint:
		return "hint"
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal"
	}
	return "unknown"
}

// ParseSeverity maps configuration spellings to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "hint":
		return SevHint, true
	case "info", "information":
		return SevInfo, true
	case "warn", "warning":
		return SevWarning, true
	case "error":
		return SevError, true
	case "fatal":
		return SevFatal, true
	}
	return 0, false
}
