package trends

// MockMode is the three-valued mock policy for an aggregation request.
//
// MockDefault runs the live providers and silently substitutes the mock set
// when they come back empty. MockOn skips the live providers entirely.
// MockOff disables the substitution: an empty live result stays empty.
type MockMode int

const (
	MockDefault MockMode = iota
	MockOn
	MockOff
)

// FallbackState captures where a request ended up in the mock-substitution
// chain. Keeping the rule as an explicit transition instead of nested
// conditionals makes the substitution auditable in isolation.
type FallbackState int

const (
	// StateLiveRequested: live providers ran and produced records.
	StateLiveRequested FallbackState = iota
	// StateLiveEmpty: live providers ran, produced nothing, and substitution
	// was disabled.
	StateLiveEmpty
	// StateMockSubstituted: the mock set replaces (or pre-empts) live data.
	StateMockSubstituted
)

// resolveFallback decides the terminal state for a request given its mock
// mode and how many live records were collected.
func resolveFallback(mode MockMode, liveCount int) FallbackState {
	if mode == MockOn {
		return StateMockSubstituted
	}
	if liveCount > 0 {
		return StateLiveRequested
	}
	if mode == MockOff {
		return StateLiveEmpty
	}
	return StateMockSubstituted
}
