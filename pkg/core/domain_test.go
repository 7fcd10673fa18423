package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func TestParseDestination(t *testing.T) {
	cases := map[string]core.Destination{
		"":            core.DestinationNone,
		"none":        core.DestinationNone,
		"apple_notes": core.DestinationAppleNotes,
		"Notes":       core.DestinationAppleNotes,
		" notion ":    core.DestinationNotion,
	}
	for in, want := range cases {
		got, err := core.ParseDestination(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := core.ParseDestination("dropbox")
	assert.ErrorIs(t, err, core.ErrUnknownDestination)
}

func TestDestination_RoundTrip(t *testing.T) {
	for _, d := range []core.Destination{core.DestinationNone, core.DestinationAppleNotes, core.DestinationNotion} {
		got, err := core.ParseDestination(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
}

func TestNotionCredentials_Complete(t *testing.T) {
	assert.False(t, core.NotionCredentials{}.Complete())
	assert.False(t, core.NotionCredentials{APIKey: "secret_x"}.Complete())
	assert.False(t, core.NotionCredentials{APIKey: "secret_x", DatabaseID: "  "}.Complete())
	assert.True(t, core.NotionCredentials{APIKey: "secret_x", DatabaseID: "db"}.Complete())
}

func TestCaptureAnswers_Clone(t *testing.T) {
	a := core.CaptureAnswers{What: "x", Tags: []string{"#a"}}
	b := a.Clone()
	b.Tags[0] = "#b"
	assert.Equal(t, "#a", a.Tags[0])
	assert.False(t, a.IsZero())
	assert.True(t, core.CaptureAnswers{}.IsZero())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, core.StatusOK, core.Classify("copy", nil).Status)
	assert.Equal(t, core.StatusUnavailable, core.Classify("notion", core.ErrMissingCredentials).Status)
	assert.Equal(t, core.StatusUnavailable, core.Classify("notes", core.ErrUnavailable).Status)

	r := core.Classify("notion", errors.New("boom"))
	assert.Equal(t, core.StatusFailed, r.Status)
	assert.Equal(t, "boom", r.Reason)
	assert.Equal(t, "notion: failed (boom)", r.String())
}

func TestNewNoteID_SortsByTime(t *testing.T) {
	early := core.NewNoteID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := core.NewNoteID(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Len(t, early, 26)
	assert.Less(t, early, late)
}
