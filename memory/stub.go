package memory

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Stub is a signature-compatible no-op Provider. It returns deterministic
// negative results and empty collections, which makes it a drop-in template
// when adapting the pipeline to a new backend: copy the file, keep the
// method set, fill in the calls.
type Stub struct{}

// NewStub returns a Stub provider.
func NewStub() *Stub { return &Stub{} }

// Initialize succeeds without doing anything.
func (s *Stub) Initialize(ctx context.Context) error {
	log.Info().Msg("stub memory provider initialized")
	return nil
}

// AddMemory reports no memory created.
func (s *Stub) AddMemory(ctx context.Context, req AddMemoryRequest) (bool, []string) {
	return false, nil
}

// SearchMemories returns no results.
func (s *Stub) SearchMemories(ctx context.Context, query, userID string, limit int, scoreThreshold float64) []MemoryEntry {
	return []MemoryEntry{}
}

// GetAllMemories returns no results.
func (s *Stub) GetAllMemories(ctx context.Context, userID string, limit int) []MemoryEntry {
	return []MemoryEntry{}
}

// CountMemories reports counting as unsupported.
func (s *Stub) CountMemories(ctx context.Context, userID string) (int, error) {
	return 0, ErrCountUnsupported
}

// DeleteMemory reports nothing deleted.
func (s *Stub) DeleteMemory(ctx context.Context, memoryID, userID, userEmail string) bool {
	return false
}

// DeleteAllMemories reports nothing deleted.
func (s *Stub) DeleteAllMemories(ctx context.Context, userID string) int { return 0 }

// TestConnection always succeeds.
func (s *Stub) TestConnection(ctx context.Context) bool { return true }

// Shutdown does nothing.
func (s *Stub) Shutdown() error { return nil }

var _ Provider = (*Stub)(nil)
