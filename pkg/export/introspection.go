package export

import (
	"github.com/aretw0/introspection"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// DispatcherState summarizes what the dispatcher has done so far.
type DispatcherState struct {
	Runs        int      `json:"runs"`
	OK          int      `json:"ok"`
	Failed      int      `json:"failed"`
	Unavailable int      `json:"unavailable"`
	AutoSent    int      `json:"auto_sent"`
	Last        []string `json:"last,omitempty"`
}

// State implements introspection.Introspectable.
func (d *Dispatcher) State() any {
	d.mu.Lock()
	defer d.mu.Unlock()

	last := make([]string, 0, len(d.last))
	for _, r := range d.last {
		last = append(last, r.String())
	}
	return DispatcherState{
		Runs:        d.runs,
		OK:          d.counts[core.StatusOK],
		Failed:      d.counts[core.StatusFailed],
		Unavailable: d.counts[core.StatusUnavailable],
		AutoSent:    len(d.sent),
		Last:        last,
	}
}

// ComponentType implements introspection.Component.
func (d *Dispatcher) ComponentType() string {
	return "dispatcher"
}

var _ introspection.Introspectable = (*Dispatcher)(nil)
var _ introspection.Component = (*Dispatcher)(nil)
