package platform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func TestFindRoot(t *testing.T) {
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "project")
	nestedDir := filepath.Join(projectDir, "a", "b")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0o755))
	require.NoError(t, os.MkdirAll(emptyDir, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(projectDir, ".chaoscaptain"), 0o755))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "start at root", startPath: projectDir, wantRoot: projectDir},
		{name: "start nested", startPath: nestedDir, wantRoot: projectDir},
		{name: "no root", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath, ".chaoscaptain")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	assert.Equal(t, ".", ResolveDataDir("", false))
	assert.Equal(t, "/home/x/notes", ResolveDataDir("/home/x/notes", false))

	inTemp := filepath.Join(os.TempDir(), "somewhere")
	assert.Equal(t, inTemp, ResolveDataDir(inTemp, true))

	assert.Equal(t, filepath.Join(os.TempDir(), "chaoscaptain-dev", "notes"), ResolveDataDir("/home/x/notes", true))
	assert.Equal(t, filepath.Join(os.TempDir(), "chaoscaptain-dev", "default"), ResolveDataDir(".", true))
}

func TestIsDevRunUnderTest(t *testing.T) {
	assert.True(t, IsDevRun())
}

func TestSandboxPath(t *testing.T) {
	dataDir := filepath.Join(string(filepath.Separator), "home", "x", "notes")
	resolved := filepath.Join(os.TempDir(), "chaoscaptain-dev", "notes")

	inside := filepath.Join(dataDir, ".chaoscaptain", "preferences.yaml")
	assert.Equal(t, filepath.Join(resolved, ".chaoscaptain", "preferences.yaml"), sandboxPath(inside, dataDir, resolved))

	outside := filepath.Join(string(filepath.Separator), "etc", "cc", "prefs.yaml")
	assert.Equal(t, filepath.Join(os.TempDir(), "chaoscaptain-dev", "cc", "prefs.yaml"), sandboxPath(outside, dataDir, resolved))

	inTemp := filepath.Join(os.TempDir(), "elsewhere", "prefs.yaml")
	assert.Equal(t, inTemp, sandboxPath(inTemp, dataDir, resolved))
}

func TestNew_SandboxKeepsPreferencesInside(t *testing.T) {
	ctx := context.Background()
	dataDir := filepath.Join(string(filepath.Separator), "chaoscaptain-real", "sandbox-prefs-data")
	prefsPath := filepath.Join(dataDir, ".chaoscaptain", "preferences.yaml")

	app, err := New(ctx, dataDir, WithoutDesktop(), WithForceTemp(true), WithPreferencesPath(prefsPath))
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(app.DataDir()) })

	sandbox := filepath.Join(os.TempDir(), "chaoscaptain-dev", "sandbox-prefs-data")
	assert.Equal(t, sandbox, app.DataDir())
	assert.Equal(t, filepath.Join(sandbox, ".chaoscaptain", "preferences.yaml"), app.Preferences().Path())

	require.NoError(t, app.Connect(ctx, core.DestinationAppleNotes))
	assert.FileExists(t, app.Preferences().Path())
	assert.NoFileExists(t, prefsPath)
}
