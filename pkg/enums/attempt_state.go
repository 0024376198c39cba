package enums

import "fmt"

// AttemptState tracks the lifecycle of a receipt attempt.
type AttemptState string

const (
	AttemptStateVerifying    AttemptState = "verifying"
	AttemptStateVerified     AttemptState = "verified"
	AttemptStateRendering    AttemptState = "rendering"
	AttemptStateDelivered    AttemptState = "delivered"
	AttemptStateRenderFailed AttemptState = "render_failed"
	AttemptStateFailed       AttemptState = "failed"
)

var validAttemptStates = []AttemptState{
	AttemptStateVerifying,
	AttemptStateVerified,
	AttemptStateRendering,
	AttemptStateDelivered,
	AttemptStateRenderFailed,
	AttemptStateFailed,
}

// String implements fmt.Stringer.
func (a AttemptState) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttemptState.
func (a AttemptState) IsValid() bool {
	for _, candidate := range validAttemptStates {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the attempt has reached a final state.
func (a AttemptState) IsTerminal() bool {
	switch a {
	case AttemptStateDelivered, AttemptStateRenderFailed, AttemptStateFailed:
		return true
	}
	return false
}

// ParseAttemptState converts raw input into an AttemptState.
func ParseAttemptState(value string) (AttemptState, error) {
	for _, candidate := range validAttemptStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attempt state %q", value)
}
