package sources

import "time"

// Policy decides when a cached snapshot must be refetched.
//
// A snapshot is always fetched when none exists. Otherwise a manual policy
// refetches only on an explicit force request, and a windowed policy
// refetches once the snapshot is older than its validity window. Force does
// not shorten a validity window.
type Policy struct {
	// Manual disables age-based refresh.
	Manual bool `json:"manual" yaml:"manual"`

	// Validity is the maximum snapshot age for windowed policies.
	Validity time.Duration `json:"validity" yaml:"validity"`
}

// ManualPolicy returns a policy that refreshes only on request.
func ManualPolicy() Policy {
	return Policy{Manual: true}
}

// WindowPolicy returns a policy that refreshes after validity elapses.
func WindowPolicy(validity time.Duration) Policy {
	return Policy{Validity: validity}
}

// NeedsRefresh reports whether a snapshot fetched at fetchedAt must be
// refetched at now. A zero fetchedAt means no snapshot exists.
func (p Policy) NeedsRefresh(fetchedAt time.Time, force bool, now time.Time) bool {
	if fetchedAt.IsZero() {
		return true
	}
	if p.Manual {
		return force
	}
	return now.Sub(fetchedAt) > p.Validity
}

// String describes the policy for status output.
func (p Policy) String() string {
	if p.Manual {
		return "manual"
	}
	return "every " + p.Validity.String()
}
