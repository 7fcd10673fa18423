package fs

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

func TestMarkdown_RoundTrip(t *testing.T) {
	doc := core.Document{
		ID:      "01JTEST",
		Content: "# Buy milk\n\n---\n\nCaptured: Friday\n",
		Metadata: core.Metadata{
			"title": "Buy milk",
			"tags":  []string{"#a", "#b"},
		},
	}

	data, err := SerializeMarkdown(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))

	parsed, err := ParseMarkdown(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, doc.Content, parsed.Content, "a --- rule in the body must survive")
	assert.Equal(t, "Buy milk", MetaString(parsed.Metadata, "title"))
	assert.Equal(t, []string{"#a", "#b"}, MetaStrings(parsed.Metadata, "tags"))
}

func TestParseMarkdown_NoFrontmatter(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader("just text\n"))
	require.NoError(t, err)
	assert.Equal(t, "just text\n", doc.Content)
	assert.Empty(t, doc.Metadata)
}

func TestParseMarkdown_CRLF(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader("---\r\ntitle: x\r\n---\r\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "x", MetaString(doc.Metadata, "title"))
	assert.Equal(t, "body", doc.Content)
}

func TestParseMarkdown_Unterminated(t *testing.T) {
	_, err := ParseMarkdown(strings.NewReader("---\ntitle: x\nbody"))
	assert.Error(t, err)
}

func TestNoteDocument(t *testing.T) {
	captured := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	n := core.RenderedNote{
		ID:            "01J",
		Title:         "Buy milk",
		Markdown:      "# Buy milk\n",
		Tags:          []string{"#shop"},
		ReminderLabel: "Tomorrow",
		Reminder:      captured.Add(23 * time.Hour),
		CapturedAt:    captured,
	}

	doc := NoteDocument(n)
	assert.Equal(t, "01J", doc.ID)
	assert.Equal(t, "# Buy milk\n", doc.Content)
	assert.Equal(t, "2026-10-16T10:00:00Z", doc.Metadata["captured_at"])
	assert.Equal(t, "2026-10-17T09:00:00Z", doc.Metadata["reminder"])
	assert.Equal(t, "Tomorrow", doc.Metadata["when"])
}
