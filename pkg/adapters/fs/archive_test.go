package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a := NewArchive(Config{Path: t.TempDir()})
	require.NoError(t, a.Initialize(context.Background()))
	return a
}

func note(id, title string, captured time.Time, tags ...string) core.RenderedNote {
	return core.RenderedNote{
		ID:         id,
		Title:      title,
		Markdown:   "# " + title + "\n",
		Tags:       tags,
		CapturedAt: captured,
	}
}

func TestArchive_SaveGet(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	captured := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	require.NoError(t, a.Save(ctx, NoteDocument(note("01JA", "Buy milk", captured, "#shop"))))

	_, err := os.Stat(filepath.Join(a.Path, "notes", "2026", "10", "01JA.md"))
	require.NoError(t, err)

	doc, err := a.Get(ctx, "01JA")
	require.NoError(t, err)
	assert.Equal(t, "# Buy milk\n", doc.Content)
	assert.Equal(t, []string{"#shop"}, MetaStrings(doc.Metadata, "tags"))

	_, err = a.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Error(t, a.Save(ctx, core.Document{}))
}

func TestArchive_ListWithPatternAndCache(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	oct := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	nov := time.Date(2026, 11, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, a.Save(ctx, NoteDocument(note("01JA", "October", oct))))
	require.NoError(t, a.Save(ctx, NoteDocument(note("01JB", "November", nov))))

	all, err := a.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "01JA", all[0].ID)
	assert.Equal(t, 2, a.cache.Len())

	// Second pass is served from the cache: titles survive, content is skipped.
	again, err := a.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "November", MetaString(again[1].Metadata, "title"))
	assert.Empty(t, again[1].Content)

	octOnly, err := a.List(ctx, "2026/10/*")
	require.NoError(t, err)
	require.Len(t, octOnly, 1)
	assert.Equal(t, "01JA", octOnly[0].ID)

	_, err = a.List(ctx, "[")
	assert.Error(t, err)
}

func TestArchive_SaveFile(t *testing.T) {
	ctx := context.Background()
	a := newTestArchive(t)

	path, err := a.SaveFile(ctx, "../../escape.ics", []byte("BEGIN:VCALENDAR"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(a.Path, "exports", "escape.ics"), path)

	state := a.State().(ArchiveState)
	assert.Equal(t, 1, state.Exported)
	assert.Equal(t, "archive", a.ComponentType())
}
