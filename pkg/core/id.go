package core

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewNoteID returns a lexically sortable ID stamped with t.
func NewNoteID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), rand.Reader).String()
}
