// Package lifecycle bridges application channels to lifecycle sources.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

type preferenceSource struct {
	changes <-chan core.ConnectionPreference
	out     chan lifecycle.Event
}

// NewPreferenceSource creates a lifecycle.Source that emits every reloaded
// connection preference.
func NewPreferenceSource(changes <-chan core.ConnectionPreference) lifecycle.Source {
	return &preferenceSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *preferenceSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards changes until ctx is done or the change channel closes.
func (s *preferenceSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case p, ok := <-s.changes:
				if !ok {
					return nil
				}
				// core.ConnectionPreference implements lifecycle.Event (has String()).
				select {
				case s.out <- p:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
