package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataDir returns the directory actually used for data. When forceTemp
// is set, paths outside the system temp directory are re-rooted under
// <tmp>/chaoscaptain-dev/<base name>.
func ResolveDataDir(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	rel, err := filepath.Rel(os.TempDir(), clean)
	if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	sub := filepath.Base(userPath)
	if userPath == "" || sub == "." || sub == string(os.PathSeparator) {
		sub = "default"
	}
	return filepath.Join(os.TempDir(), "chaoscaptain-dev", sub)
}

// sandboxPath maps a file path chosen for dataDir into the sandbox resolved.
// Paths inside dataDir keep their relative location; anything else is
// re-rooted the same way as a data dir.
func sandboxPath(path, dataDir, resolved string) string {
	rel, err := filepath.Rel(filepath.Clean(dataDir), filepath.Clean(path))
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return filepath.Join(resolved, rel)
	}
	return filepath.Join(ResolveDataDir(filepath.Dir(path), true), filepath.Base(path))
}
