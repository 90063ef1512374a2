package game

import "errors"

// Gameplay precondition errors. The dispatcher recovers all of these
// locally and surfaces them as journal entries; none of them ever aborts
// the loop.
var (
	// ErrInsufficientResources means the cost vector is not covered.
	ErrInsufficientResources = errors.New("insufficient resources")
	// ErrPrerequisiteNotMet means an upgrade's prerequisite chain is open.
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
	// ErrPrestigeThresholdNotMet means the prestige floor is not reached.
	ErrPrestigeThresholdNotMet = errors.New("prestige threshold not met")
	// ErrInvalidAction means the action is well-formed but not applicable
	// to the current state (unknown id, no task to act on, and so on).
	ErrInvalidAction = errors.New("invalid action")
)
