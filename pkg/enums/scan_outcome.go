package enums

// ScanOutcome reports whether a scan or user action mutated session state.
type ScanOutcome string

const (
	ScanOutcomeAccepted ScanOutcome = "accepted"
	ScanOutcomeIgnored  ScanOutcome = "ignored"
)

var validScanOutcomes = []ScanOutcome{
	ScanOutcomeAccepted,
	ScanOutcomeIgnored,
}

// String implements fmt.Stringer.
func (s ScanOutcome) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScanOutcome.
func (s ScanOutcome) IsValid() bool {
	for _, candidate := range validScanOutcomes {
		if candidate == s {
			return true
		}
	}
	return false
}
