package prefs

import (
	"github.com/aretw0/introspection"
)

// StoreState is the introspection snapshot. Credentials are never exposed,
// only whether they are present.
type StoreState struct {
	Path             string `json:"path"`
	Destination      string `json:"destination"`
	Onboarding       string `json:"onboarding"`
	NotionConfigured bool   `json:"notion_configured"`
	Mirrored         bool   `json:"mirrored"`
	Watching         bool   `json:"watching"`
	Writes           int    `json:"writes"`
	Reloads          int    `json:"reloads"`
	RemoteErrors     int    `json:"remote_errors"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Path:             s.path,
		Destination:      s.state.StorageService,
		Onboarding:       string(s.state.Onboarding),
		NotionConfigured: s.state.NotionAPIKey != "" && s.state.NotionDatabaseID != "",
		Mirrored:         s.remote != nil && s.userID != "",
		Watching:         s.watching,
		Writes:           s.writes,
		Reloads:          s.reloads,
		RemoteErrors:     s.remoteErrors,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "preferences"
}

var (
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
)
