package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("Creates File And Parents", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "nested", "dir", "prefs.yaml")

		if err := WriteFileAtomic(filename, []byte("storage_service: notion\n"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		got, err := os.ReadFile(filename)
		if err != nil {
			t.Fatalf("Failed to read file: %v", err)
		}
		if string(got) != "storage_service: notion\n" {
			t.Errorf("unexpected content %q", string(got))
		}
	})

	t.Run("Overwrites Existing File", func(t *testing.T) {
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "note.md")

		if err := os.WriteFile(filename, []byte("initial"), 0o644); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
		if err := WriteFileAtomic(filename, []byte("overwritten"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}

		got, _ := os.ReadFile(filename)
		if string(got) != "overwritten" {
			t.Errorf("Expected content 'overwritten', got '%s'", string(got))
		}
	})

	t.Run("Respects Permissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not meaningful on windows")
		}
		tmpDir := t.TempDir()
		filename := filepath.Join(tmpDir, "secret.yaml")

		if err := WriteFileAtomic(filename, []byte("notion_api_key: x"), 0o600); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}
		info, err := os.Stat(filename)
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("Expected perm 0600, got %v", info.Mode().Perm())
		}
	})

	t.Run("Leaves No Temp Files", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := WriteFileAtomic(filepath.Join(tmpDir, "a.md"), []byte("a"), 0o644); err != nil {
			t.Fatalf("WriteFileAtomic failed: %v", err)
		}
		entries, _ := os.ReadDir(tmpDir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), TempFilePrefix) {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}
