package core

import (
	"context"
	"time"
)

// Archive stores rendered notes so they can be listed later.
// Adhering to this interface keeps the dispatcher independent of the
// underlying storage mechanism.
type Archive interface {
	// Save persists a document. It creates if not exists, or updates if it does.
	Save(ctx context.Context, doc Document) error
	// Get retrieves a document by its ID.
	Get(ctx context.Context, id string) (Document, error)
	// List returns the documents whose relative path matches pattern ("" for all).
	List(ctx context.Context, pattern string) ([]Document, error)
	// Initialize ensures the underlying storage is ready.
	Initialize(ctx context.Context) error
}

// FileSaver writes an export artifact and returns where it landed.
type FileSaver interface {
	SaveFile(ctx context.Context, name string, data []byte) (string, error)
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// URLOpener hands a URL to the platform (Shortcuts, mail client, browser).
type URLOpener interface {
	Open(ctx context.Context, url string) error
}

// NotionPage is the payload the Notion relay expects.
type NotionPage struct {
	APIKey     string   `json:"apiKey"`
	DatabaseID string   `json:"databaseId"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
}

// NotionRelay creates one Notion page per note.
type NotionRelay interface {
	CreatePage(ctx context.Context, page NotionPage) error
}

// Transcriber turns a recorded clip into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// RemotePreferences is the single-row-per-user record mirrored by the
// preference store. Last write wins.
type RemotePreferences interface {
	Load(ctx context.Context, userID string) (RemoteRecord, error)
	Store(ctx context.Context, userID string, rec RemoteRecord) error
}

// RemoteRecord is the persisted row.
type RemoteRecord struct {
	StorageService string    `json:"storage_service"`
	UpdatedAt      time.Time `json:"updated_at"`
}
