package fs

import (
	"github.com/aretw0/introspection"
)

// ArchiveState exposes internal state for observability.
type ArchiveState struct {
	Path      string `json:"path"`
	SystemDir string `json:"system_dir"`
	CacheSize int    `json:"cache_size"`
	Saved     int    `json:"saved"`
	Exported  int    `json:"exported"`
}

// State implements introspection.Introspectable.
func (a *Archive) State() any {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ArchiveState{
		Path:      a.Path,
		SystemDir: a.config.SystemDir,
		CacheSize: a.cache.Len(),
		Saved:     a.saved,
		Exported:  a.exported,
	}
}

// ComponentType implements introspection.Component.
func (a *Archive) ComponentType() string {
	return "archive"
}

var _ introspection.Introspectable = (*Archive)(nil)
var _ introspection.Component = (*Archive)(nil)
