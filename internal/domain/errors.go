package domain

import "fmt"

// ConfigError reports an invalid mission configuration at initialization.
// Fatal to mission setup; the caller must not proceed to start.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid mission config: " + e.Reason
}

// InvalidTransitionError reports a command issued from a state that does
// not permit it. Recoverable: the caller may log and ignore it, since it
// represents a user/timing race (e.g. a double-clicked start control),
// not corruption.
type InvalidTransitionError struct {
	Command string
	State   MissionState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not allowed in state %s", e.Command, e.State)
}
