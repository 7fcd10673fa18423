package fs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

// ParseMarkdown reads a markdown document with optional YAML frontmatter
// (delimited by ---).
func ParseMarkdown(r io.Reader) (core.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Document{}, err
	}

	doc := core.Document{Metadata: make(core.Metadata)}

	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		doc.Content = string(data)
		return doc, nil
	}

	rest := data[3:]
	// The closing delimiter must sit on its own line, otherwise a "---"
	// rule inside the body would cut the frontmatter short.
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return core.Document{}, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(rest[:end], &doc.Metadata); err != nil {
		return core.Document{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	body := string(rest[end+len("\n---"):])
	body = strings.TrimPrefix(body, "\r")
	doc.Content = strings.TrimPrefix(body, "\n")
	return doc, nil
}

// SerializeMarkdown writes doc as frontmatter followed by its content.
func SerializeMarkdown(doc core.Document) ([]byte, error) {
	var buf bytes.Buffer
	if len(doc.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(map[string]any(doc.Metadata)); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	}
	buf.WriteString(doc.Content)
	return buf.Bytes(), nil
}

// NoteDocument maps a rendered note onto its archived form.
func NoteDocument(n core.RenderedNote) core.Document {
	meta := core.Metadata{
		"title":       n.Title,
		"captured_at": n.CapturedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if len(n.Tags) > 0 {
		meta["tags"] = append([]string(nil), n.Tags...)
	}
	if n.ReminderLabel != "" {
		meta["when"] = n.ReminderLabel
		if n.HasReminder() {
			meta["reminder"] = n.Reminder.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return core.Document{ID: n.ID, Content: n.Markdown, Metadata: meta}
}

// MetaString reads a string field from frontmatter.
func MetaString(m core.Metadata, key string) string {
	s, _ := m[key].(string)
	return s
}

// MetaStrings reads a string list from frontmatter, which YAML decodes as []any.
func MetaStrings(m core.Metadata, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
