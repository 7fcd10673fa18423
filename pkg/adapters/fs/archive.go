package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

const (
	// DefaultSystemDir holds the archive index.
	DefaultSystemDir = ".chaoscaptain"
	notesDir         = "notes"
	exportsDir       = "exports"
)

// Config holds the configuration for the filesystem archive.
type Config struct {
	Path      string
	SystemDir string
	Logger    *slog.Logger
}

// Archive implements core.Archive and core.FileSaver on a local directory.
//
// Layout:
//
//	<root>/notes/<yyyy>/<mm>/<id>.md   archived notes with frontmatter
//	<root>/exports/<name>              downloaded exports (.md, .ics)
//	<root>/<systemDir>/index.json      list cache
type Archive struct {
	Path   string
	config Config
	cache  *cache
	logger *slog.Logger

	mu       sync.Mutex
	saved    int
	exported int
}

// NewArchive creates a filesystem archive. No I/O happens until Initialize.
func NewArchive(config Config) *Archive {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Archive{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
		logger: logger,
	}
}

// Initialize creates the directory layout.
func (a *Archive) Initialize(ctx context.Context) error {
	for _, dir := range []string{notesDir, exportsDir, a.config.SystemDir} {
		if err := os.MkdirAll(filepath.Join(a.Path, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return nil
}

// notePath shards by the capture month so directories stay small.
func (a *Archive) notePath(id string, captured time.Time) string {
	return filepath.Join(a.Path, notesDir, captured.Format("2006"), captured.Format("01"), id+".md")
}

// Save writes the note document atomically.
func (a *Archive) Save(ctx context.Context, doc core.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document has no ID")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	captured := time.Now()
	if s := MetaString(doc.Metadata, "captured_at"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			captured = t
		}
	}

	data, err := SerializeMarkdown(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize note %s: %w", doc.ID, err)
	}

	path := a.notePath(doc.ID, captured)
	a.logger.Debug("writing note to disk", "id", doc.ID, "path", path)
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}

	a.mu.Lock()
	a.saved++
	a.mu.Unlock()
	return nil
}

// Get finds a note by ID anywhere under notes/.
func (a *Archive) Get(ctx context.Context, id string) (core.Document, error) {
	matches, err := doublestar.Glob(os.DirFS(a.Path), notesDir+"/**/"+id+".md")
	if err != nil {
		return core.Document{}, err
	}
	if len(matches) == 0 {
		return core.Document{}, fmt.Errorf("note %s: %w", id, core.ErrNotFound)
	}
	return a.read(filepath.Join(a.Path, filepath.FromSlash(matches[0])), id)
}

func (a *Archive) read(path, id string) (core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Document{}, err
	}
	defer f.Close()

	doc, err := ParseMarkdown(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse note %s: %w", id, err)
	}
	doc.ID = id
	return doc, nil
}

// List returns archived notes whose path relative to notes/ matches pattern
// (doublestar syntax, e.g. "2026/10/*"). An empty pattern lists everything.
// Cache hits carry metadata only; use Get for the content.
func (a *Archive) List(ctx context.Context, pattern string) ([]core.Document, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	if err := a.cache.Load(); err != nil {
		a.logger.Warn("failed to load cache", "error", err)
	}

	root := filepath.Join(a.Path, notesDir)
	seen := make(map[string]bool)
	var docs []core.Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		seen[rel] = true

		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, strings.TrimSuffix(rel, ".md")); !ok {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		id := strings.TrimSuffix(d.Name(), ".md")

		if entry, hit := a.cache.Get(rel, info.ModTime()); hit {
			docs = append(docs, entry.document())
			return nil
		}

		doc, err := a.read(path, id)
		if err != nil {
			a.logger.Warn("failed to parse note during list", "id", id, "error", err)
			return nil
		}
		a.cache.Set(rel, &indexEntry{
			ID:           id,
			Title:        MetaString(doc.Metadata, "title"),
			Tags:         MetaStrings(doc.Metadata, "tags"),
			When:         MetaString(doc.Metadata, "when"),
			CapturedAt:   MetaString(doc.Metadata, "captured_at"),
			LastModified: info.ModTime(),
		})
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk archive: %w", err)
	}

	if pattern == "" {
		a.cache.Prune(seen)
	}
	if err := a.cache.Save(); err != nil {
		a.logger.Warn("failed to save cache", "error", err)
	}

	// ULIDs sort by capture time.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (e *indexEntry) document() core.Document {
	meta := core.Metadata{"title": e.Title}
	if len(e.Tags) > 0 {
		meta["tags"] = e.Tags
	}
	if e.When != "" {
		meta["when"] = e.When
	}
	if e.CapturedAt != "" {
		meta["captured_at"] = e.CapturedAt
	}
	return core.Document{ID: e.ID, Metadata: meta}
}

// SaveFile implements core.FileSaver: exports land in <root>/exports.
func (a *Archive) SaveFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.Base(name)
	if clean == "." || clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(a.Path, exportsDir, clean)
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}

	a.mu.Lock()
	a.exported++
	a.mu.Unlock()
	return path, nil
}

var (
	_ core.Archive   = (*Archive)(nil)
	_ core.FileSaver = (*Archive)(nil)
)
