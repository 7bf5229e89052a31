package diag

// Severity defines the importance of a diagnostic. Ordered ascending so
// that Bag.Sort's "severity descending" rule (Error first) falls out of
// a plain numeric comparison.
type Severity uint8

const (
	// SevStyle is for suggestions (e.g. a more idiomatic spelling).
	SevStyle Severity = iota
	// SevInfo is for informational diagnostics.
	SevInfo
	// SevWarning is for warning diagnostics.
	SevWarning
	// SevError is for diagnostics that abort purification.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevStyle:
		return "STYLE"
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity maps a config/CLI string to a Severity, for the
// `--severity {error|warning|info|style}` flag.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "error":
		return SevError, true
	case "warning":
		return SevWarning, true
	case "info":
		return SevInfo, true
	case "style":
		return SevStyle, true
	}
	return SevInfo, false
}
