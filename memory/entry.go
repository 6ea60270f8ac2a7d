package memory

import "github.com/chronicle/chronicle-backend/memory/internal/wire"

// MemoryEntry is the normalized record returned to callers. It is a plain
// value: constructed from a remote object, never mutated afterwards, and the
// provider keeps no state about it.
type MemoryEntry struct {
	// ID is the remote identifier unwrapped to a plain string. Consumers
	// treat it as an opaque key.
	ID string
	// Content is the primary memory text.
	Content string
	// Metadata carries free-form attributes (user id, display name,
	// aliases, creation/update timestamps).
	Metadata map[string]interface{}
	// CreatedAt is the remote creation timestamp as received (RFC-3339).
	CreatedAt string
	// Score is set only on search results.
	Score *float64
}

// entryFromObject converts a remote Mycelia object into a MemoryEntry.
func entryFromObject(obj wire.Object, userID string) MemoryEntry {
	return MemoryEntry{
		ID:      obj.ID.String(),
		Content: obj.Details,
		Metadata: map[string]interface{}{
			"user_id":    userID,
			"name":       obj.Name,
			"aliases":    obj.Aliases,
			"created_at": obj.CreatedAt.String(),
			"updated_at": obj.UpdatedAt.String(),
		},
		CreatedAt: obj.CreatedAt.String(),
	}
}
