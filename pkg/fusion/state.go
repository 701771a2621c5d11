package fusion

// State is a phase of a fusion run.
type State string

// Orchestrator states, in the order a run passes through them.
const (
	StateIdle              State = "idle"
	StateFetchingPrimary   State = "fetching_primary"
	StateFetchingSecondary State = "fetching_secondary"
	StateDecidingFusion    State = "deciding_fusion"
	StateFusing            State = "fusing"
	StateCommitted         State = "committed"
)

// String returns the state name.
func (s State) String() string {
	return string(s)
}
