package flow

import "fmt"

// State is the active screen. Exactly one is active at a time.
type State int

const (
	StateOnboarding State = iota
	StateCapture
	StateFlow
	StateOutput
	StateCelebrate
)

func (s State) String() string {
	switch s {
	case StateOnboarding:
		return "onboarding"
	case StateCapture:
		return "capture"
	case StateFlow:
		return "flow"
	case StateOutput:
		return "output"
	case StateCelebrate:
		return "celebrate"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// transitions lists the forward moves. Reset is allowed from anywhere and is
// not part of the table.
var transitions = map[State]State{
	StateOnboarding: StateCapture,
	StateCapture:    StateFlow,
	StateFlow:       StateOutput,
	StateOutput:     StateCelebrate,
	StateCelebrate:  StateCapture,
}

// Step is a guided question inside StateFlow.
type Step int

const (
	StepWhat Step = iota
	StepWhy
	StepWhen
	StepTags
)

// stepCount is the number of guided questions.
const stepCount = int(StepTags) + 1

func (s Step) String() string {
	switch s {
	case StepWhat:
		return "what"
	case StepWhy:
		return "why"
	case StepWhen:
		return "when"
	case StepTags:
		return "tags"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Question is the prompt shown for s.
func (s Step) Question() string {
	switch s {
	case StepWhat:
		return "What happened?"
	case StepWhy:
		return "Why Log This?"
	case StepWhen:
		return "When should you revisit this?"
	case StepTags:
		return "Add tags (optional)"
	}
	return ""
}

// Placeholder is the hint shown for s.
func (s Step) Placeholder() string {
	switch s {
	case StepWhat:
		return "Describe what you want to remember..."
	case StepWhy:
		return "Why is this important or interesting?"
	case StepWhen:
		return "e.g., Next week, In 3 months, Never"
	case StepTags:
		return "Separate tags with spaces or commas"
	}
	return ""
}

// Celebrations are shown when a note is done.
var Celebrations = []string{
	"Chaos Tamed! 🎯",
	"Note Captured! ⚓",
	"Smooth Sailing! ⛵",
	"All Hands On Deck! 🌊",
	"Anchors Aweigh! ⚓",
}
