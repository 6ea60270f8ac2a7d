// Package memory provides the memory-provider contract used by the
// conversation pipeline, together with a Mycelia-backed implementation and a
// signature-compatible stub.
//
// The provider is deliberately fail-soft: apart from initialization and
// identity resolution, a failed remote call is logged and converted into a
// negative or empty result so a single backend hiccup never aborts the
// pipeline that invoked it.
package memory

import (
	"context"
	"errors"
)

// ErrCountUnsupported is returned by CountMemories when the provider cannot
// answer aggregate count queries.
var ErrCountUnsupported = errors.New("memory count not supported")

// AddMemoryRequest carries the inputs for Provider.AddMemory.
type AddMemoryRequest struct {
	// Transcript is the raw text the memory is extracted from.
	Transcript string
	// ClientID identifies the client device or app session.
	ClientID string
	// SourceID uniquely identifies the source (audio session, chat session).
	SourceID string
	// UserID identifies the owning user.
	UserID string
	// UserEmail is optional; when empty the provider resolves it.
	UserEmail string
	// AllowUpdate permits updating an existing memory. The Mycelia create
	// action does not honor it yet; it is part of the contract so call
	// sites need not change when the backend grows support.
	AllowUpdate bool
}

// Provider is the capability set every memory backend adapter implements.
//
// Initialization is not guarded against concurrent first calls: two
// simultaneous TestConnection calls on a fresh provider may both run the
// liveness probe. The only cost is duplicate setup work; callers that care
// must serialize initialization themselves.
type Provider interface {
	// Initialize establishes the connection context and verifies liveness.
	Initialize(ctx context.Context) error

	// AddMemory stores a memory extracted from transcript. It reports
	// success and the identifiers of the created records; any failure
	// yields (false, nil) rather than an error.
	AddMemory(ctx context.Context, req AddMemoryRequest) (bool, []string)

	// SearchMemories returns matches ordered most-relevant first. Scores
	// are a documented reverse-rank approximation, not calibrated
	// similarity. Failures yield an empty slice.
	SearchMemories(ctx context.Context, query, userID string, limit int, scoreThreshold float64) []MemoryEntry

	// GetAllMemories lists up to limit memories, most recently updated
	// first. Failures yield an empty slice.
	GetAllMemories(ctx context.Context, userID string, limit int) []MemoryEntry

	// CountMemories returns the total number of memories for the user, or
	// ErrCountUnsupported when the backend cannot count.
	CountMemories(ctx context.Context, userID string) (int, error)

	// DeleteMemory removes one memory. It requires a user identity and
	// returns false without issuing any request when userID is empty.
	DeleteMemory(ctx context.Context, memoryID, userID, userEmail string) bool

	// DeleteAllMemories removes every memory for the user and returns the
	// number of confirmed deletions. The sweep is not atomic.
	DeleteAllMemories(ctx context.Context, userID string) int

	// TestConnection probes backend liveness, initializing lazily.
	TestConnection(ctx context.Context) bool

	// Shutdown releases held connection resources. Safe to call multiple
	// times.
	Shutdown() error
}
