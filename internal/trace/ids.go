package trace

import (
	"github.com/google/uuid"
)

// IDGenerator produces run identifiers.
// Production uses UUIDv7Generator; tests inject fixed sequences.
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator generates time-ordered UUIDs (v7).
//
// UUIDv7 embeds a millisecond timestamp in the high bits, so run ids
// sort by creation time. That makes `trace runs` listings naturally
// chronological without a timestamp sort.
type UUIDv7Generator struct{}

// NewID returns a new UUIDv7 string.
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
