package core

import "errors"

// Common errors.
var (
	ErrEmptyAnswer        = errors.New("answer cannot be empty")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrMissingCredentials = errors.New("missing Notion credentials")
	ErrUnavailable        = errors.New("destination unavailable")
	ErrNotFound           = errors.New("not found")
	ErrUnknownDestination = errors.New("unknown destination")
	ErrNoReminder         = errors.New("note has no reminder")
)

// Classify maps an action error to the result taxonomy: availability problems
// become Unavailable, everything else is a failure.
func Classify(action string, err error) Result {
	if err == nil {
		return OK(action)
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrMissingCredentials) {
		return Unavailable(action, err)
	}
	return Failed(action, err)
}
