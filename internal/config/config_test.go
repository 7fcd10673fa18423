package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8787", cfg.Relay.Addr)
	assert.Equal(t, 500*time.Millisecond, cfg.Export.HandoffSettle)
	assert.Empty(t, cfg.Session.UserID)
	assert.Equal(t, filepath.Join(cfg.DataDir, ".chaoscaptain", "preferences.yaml"), cfg.PreferencesPath())
}

func TestLoadFiles_ProjectOverridesGlobal(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(dir, "global", "config.yaml")
	project := filepath.Join(dir, "project", "config.yaml")
	writeFile(t, global, "data_dir: /tmp/global\nrelay:\n  url: http://global:8787\nsession:\n  user_id: alice\n")
	writeFile(t, project, "relay:\n  url: http://project:8787\nexport:\n  handoff_settle: 2s\n")

	cfg, err := LoadFiles(global, project)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/global", cfg.DataDir)
	assert.Equal(t, "http://project:8787", cfg.Relay.URL)
	assert.Equal(t, "alice", cfg.Session.UserID)
	assert.Equal(t, 2*time.Second, cfg.Export.HandoffSettle)
	assert.Equal(t, ":8787", cfg.Relay.Addr, "defaults survive")
}

func TestLoadFiles_MissingFilesUseDefaults(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Relay.URL, cfg.Relay.URL)
}

func TestLoadFiles_EnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "session:\n  user_id: alice\n")
	t.Setenv("CHAOS_SESSION_USER_ID", "bob")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Session.UserID)
	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
}

func TestLoadFiles_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "relay: [oops")

	_, err := LoadFiles(path)
	assert.Error(t, err)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), expandHome("~/notes"))
	assert.Equal(t, "/abs", expandHome("/abs"))
}
