package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/lifecycle"
	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func TestPreferenceSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan core.ConnectionPreference, 1)
	src := lifecycle.NewPreferenceSource(changes)
	require.NoError(t, src.Start(ctx))

	changes <- core.ConnectionPreference{Destination: core.DestinationNotion}
	select {
	case ev := <-src.Events():
		assert.Equal(t, "Notion", ev.String())
	case <-time.After(2 * time.Second):
		t.Fatal("event not forwarded")
	}

	close(changes)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events close when changes close")
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed")
	}
}
