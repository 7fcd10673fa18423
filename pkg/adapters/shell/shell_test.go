package shell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/shell"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func TestOpener(t *testing.T) {
	var got string
	o := shell.NewOpener(nil)
	o.SetOpenFunc(func(u string) error {
		got = u
		return nil
	})

	require.NoError(t, o.Open(context.Background(), "mailto:?subject=x"))
	assert.Equal(t, "mailto:?subject=x", got)
}

func TestOpener_FailureIsUnavailable(t *testing.T) {
	o := shell.NewOpener(nil)
	o.SetOpenFunc(func(string) error { return errors.New("exec: open: not found") })

	err := o.Open(context.Background(), "shortcuts://x-callback-url/run-shortcut")
	assert.ErrorIs(t, err, core.ErrUnavailable)
}

func TestOpener_CancelledContext(t *testing.T) {
	called := false
	o := shell.NewOpener(nil)
	o.SetOpenFunc(func(string) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, o.Open(ctx, "mailto:"), context.Canceled)
	assert.False(t, called)
}
