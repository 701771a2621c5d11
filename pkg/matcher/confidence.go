package matcher

// Confidence records how a primary record was linked to a secondary record.
type Confidence string

const (
	// Exact means the normalized, aliased composite keys are equal.
	Exact Confidence = "exact"
	// Fuzzy means the keys are equal once date-version suffixes are stripped.
	Fuzzy Confidence = "fuzzy"
	// Unmatched means no secondary record was linked.
	Unmatched Confidence = "unmatched"
)

// String returns the string representation of the confidence.
func (c Confidence) String() string {
	return string(c)
}

// Matched reports whether a secondary record was linked.
func (c Confidence) Matched() bool {
	return c == Exact || c == Fuzzy
}

// ParseConfidence converts a persisted value back into a Confidence.
// Anything unrecognized is treated as Unmatched.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case Exact, Fuzzy:
		return Confidence(s)
	default:
		return Unmatched
	}
}
