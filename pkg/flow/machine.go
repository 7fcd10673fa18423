// Package flow is the capture flow state machine:
// Onboarding → Capture → Flow (What, Why, When, Tags) → Output → Celebrate.
//
// The Machine owns the answers of the current note. It is not safe for
// concurrent use; one flow has one owner.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
	"github.com/chaoscaptain/chaoscaptain/pkg/render"
)

// Preferences is the part of the preference store the flow needs.
type Preferences interface {
	OnboardingStatus() core.OnboardingStatus
	MarkOnboarding(ctx context.Context, status core.OnboardingStatus) error
	Set(ctx context.Context, dest core.Destination) error
}

// Machine drives one user through capture and export.
type Machine struct {
	prefs  Preferences
	logger *slog.Logger
	now    func() time.Time
	pick   func(n int) int

	state       State
	step        Step
	answers     core.CaptureAnswers
	note        core.RenderedNote
	celebration string
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithPicker overrides how the celebration message is chosen. pick returns a
// value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(m *Machine) { m.pick = pick }
}

// New starts a flow. It begins in StateOnboarding only when prefs reports that
// onboarding was never completed or skipped.
func New(prefs Preferences, opts ...Option) *Machine {
	m := &Machine{
		prefs:  prefs,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		pick:   rand.IntN,
		state:  StateCapture,
	}
	for _, opt := range opts {
		opt(m)
	}
	if prefs != nil && !prefs.OnboardingStatus().Done() {
		m.state = StateOnboarding
	}
	return m
}

// State returns the active screen.
func (m *Machine) State() State { return m.state }

// Step returns the active question. Only meaningful in StateFlow.
func (m *Machine) Step() Step { return m.step }

// Answers returns a copy of the answers so far.
func (m *Machine) Answers() core.CaptureAnswers { return m.answers.Clone() }

// Progress is the completion percentage shown above the questions.
func (m *Machine) Progress() int {
	switch m.state {
	case StateFlow:
		return (int(m.step) + 1) * 100 / stepCount
	case StateOutput, StateCelebrate:
		return 100
	}
	return 0
}

// CompleteOnboarding stores dest as the connected destination and moves to
// capture. DestinationNone is the same as skipping.
func (m *Machine) CompleteOnboarding(ctx context.Context, dest core.Destination) error {
	if err := m.expect(StateOnboarding); err != nil {
		return err
	}
	if dest == core.DestinationNone {
		return m.SkipOnboarding(ctx)
	}
	if err := m.prefs.Set(ctx, dest); err != nil {
		return fmt.Errorf("failed to save destination: %w", err)
	}
	if err := m.prefs.MarkOnboarding(ctx, core.OnboardingComplete); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	m.logger.Info("onboarding complete", "destination", dest.String())
	return m.advance()
}

// SkipOnboarding moves to capture without connecting anything. Onboarding is
// not offered again.
func (m *Machine) SkipOnboarding(ctx context.Context) error {
	if err := m.expect(StateOnboarding); err != nil {
		return err
	}
	if err := m.prefs.MarkOnboarding(ctx, core.OnboardingSkipped); err != nil {
		return fmt.Errorf("failed to skip onboarding: %w", err)
	}
	m.logger.Info("onboarding skipped")
	return m.advance()
}

// SubmitCapture takes the typed or transcribed text as the first answer and
// starts the guided questions.
func (m *Machine) SubmitCapture(text string) error {
	if err := m.expect(StateCapture); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return core.ErrEmptyAnswer
	}
	m.answers = core.CaptureAnswers{What: text}
	m.step = StepWhat
	return m.advance()
}

// Answer sets the answer for the active question. On the tags question the
// input is parsed and added.
func (m *Machine) Answer(text string) error {
	if err := m.expect(StateFlow); err != nil {
		return err
	}
	switch m.step {
	case StepWhat:
		m.answers.What = text
	case StepWhy:
		m.answers.Why = text
	case StepWhen:
		m.answers.When = text
	case StepTags:
		return m.AddTags(text)
	}
	return nil
}

// AddTags parses input and adds the new tags, keeping order and dropping
// duplicates.
func (m *Machine) AddTags(input string) error {
	if err := m.expect(StateFlow); err != nil {
		return err
	}
	for _, tag := range render.ParseTags(input) {
		m.answers.Tags = render.AddTag(m.answers.Tags, tag)
	}
	return nil
}

// RemoveTag removes tag if present.
func (m *Machine) RemoveTag(tag string) error {
	if err := m.expect(StateFlow); err != nil {
		return err
	}
	m.answers.Tags = render.RemoveTag(m.answers.Tags, tag)
	return nil
}

// Next moves to the following question. After the last one the note is
// rendered and the flow moves to output. Leaving What requires an answer.
func (m *Machine) Next() error {
	if err := m.expect(StateFlow); err != nil {
		return err
	}
	if m.step == StepWhat && strings.TrimSpace(m.answers.What) == "" {
		return core.ErrEmptyAnswer
	}
	if m.step < StepTags {
		m.step++
		return nil
	}

	now := m.now()
	m.note = render.Render(m.answers, now)
	m.note.ID = core.NewNoteID(now)
	m.logger.Debug("note rendered", "id", m.note.ID, "title", m.note.Title)
	return m.advance()
}

// Back returns to the previous question.
func (m *Machine) Back() error {
	if err := m.expect(StateFlow); err != nil {
		return err
	}
	if m.step == StepWhat {
		return fmt.Errorf("%w: already at the first question", core.ErrInvalidTransition)
	}
	m.step--
	return nil
}

// Note returns the rendered note once the flow reached output. Before that it
// is a preview of the current answers without an ID.
func (m *Machine) Note() core.RenderedNote {
	if m.state == StateOutput || m.state == StateCelebrate {
		return m.note
	}
	return render.Render(m.answers, m.now())
}

// Complete finishes the note and picks a celebration message.
func (m *Machine) Complete() error {
	if err := m.expect(StateOutput); err != nil {
		return err
	}
	m.celebration = Celebrations[m.pick(len(Celebrations))]
	return m.advance()
}

// Celebration is the message picked by Complete.
func (m *Machine) Celebration() string {
	return m.celebration
}

// Reset discards the current note, sent or not, and returns to capture.
func (m *Machine) Reset() {
	m.logger.Debug("flow reset", "from", m.state.String())
	m.state = StateCapture
	m.step = StepWhat
	m.answers = core.CaptureAnswers{}
	m.note = core.RenderedNote{}
	m.celebration = ""
}

func (m *Machine) expect(s State) error {
	if m.state != s {
		return fmt.Errorf("%w: %s requires %s", core.ErrInvalidTransition, m.state, s)
	}
	return nil
}

func (m *Machine) advance() error {
	next, ok := transitions[m.state]
	if !ok {
		return fmt.Errorf("%w: no transition from %s", core.ErrInvalidTransition, m.state)
	}
	m.logger.Debug("flow transition", "from", m.state.String(), "to", next.String())
	m.state = next
	return nil
}
