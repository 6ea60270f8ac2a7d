package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chronicle/chronicle-backend/auth"
	"github.com/chronicle/chronicle-backend/memory/internal/errs"
	"github.com/chronicle/chronicle-backend/memory/internal/wire"
)

const (
	objectsResourcePath = "/api/resource/tech.mycelia.objects"
	mongoResourcePath   = "/api/resource/tech.mycelia.mongo"
	healthPath          = "/health"

	// sweepLimit bounds the list issued by DeleteAllMemories.
	sweepLimit = 10000
)

// Mycelia implements Provider against the remote Mycelia object-store API.
//
// Every authenticated call first resolves a short-lived per-user token via
// the injected TokenIssuer (looking up the user's email through the Resolver
// when the caller did not supply one) and attaches it as a bearer header.
// Each remote call is attempted exactly once; there is no retry logic.
type Mycelia struct {
	baseURL  string
	http     *http.Client
	issuer   auth.TokenIssuer
	resolver auth.Resolver

	// initialized is not locked; a concurrent first call may duplicate the
	// liveness probe, nothing more. See Provider docs.
	initialized bool
	closedOnce  uint32
}

// NewMycelia constructs the adapter. The token issuer is mandatory; the
// resolver may be nil when callers always supply emails, in which case
// email-less calls fail with an identity error.
func NewMycelia(baseURL string, issuer auth.TokenIssuer, resolver auth.Resolver, opts ...Option) *Mycelia {
	if baseURL == "" {
		panic("baseURL cannot be empty")
	}
	if issuer == nil {
		panic("token issuer cannot be nil")
	}

	m := &Mycelia{
		baseURL:  strings.TrimRight(baseURL, "/"),
		issuer:   issuer,
		resolver: resolver,
		http:     &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			panic(err)
		}
	}

	log.Info().Str("api_url", m.baseURL).Msg("initializing Mycelia memory provider")
	return m
}

// Initialize verifies the backend is reachable. Callers must serialize
// concurrent first calls themselves.
func (m *Mycelia) Initialize(ctx context.Context) error {
	if err := m.healthProbe(ctx); err != nil {
		log.Error().Err(err).Msg("Mycelia initialization failed")
		return err
	}
	m.initialized = true
	log.Info().Msg("Mycelia memory provider initialized")
	return nil
}

func (m *Mycelia) healthProbe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+healthPath, nil)
	if err != nil {
		return errs.Connection("health check", err)
	}
	resp, err := m.http.Do(req)
	if err != nil {
		return errs.Connection("health check", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errs.Connection("health check", fmt.Errorf("status %d", resp.StatusCode))
	}
	return nil
}

func (m *Mycelia) ensureInitialized(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	return m.Initialize(ctx)
}

// userToken resolves the user's email when absent and mints a bearer token.
// Identity failures are classified so callers can tell them apart from API
// failures.
func (m *Mycelia) userToken(ctx context.Context, userID, userEmail string) (string, error) {
	if userEmail == "" {
		if m.resolver == nil {
			return "", errs.Identity("resolve user", fmt.Errorf("no identity resolver configured"))
		}
		email, err := m.resolver.Email(ctx, userID)
		if err != nil {
			return "", errs.Identity("resolve user", err)
		}
		userEmail = email
	}
	tok, err := m.issuer.Issue(userID, userEmail)
	if err != nil {
		return "", errs.Identity("issue token", err)
	}
	return tok, nil
}

// callResource posts to the generic objects resource endpoint. The action
// field selects create/list/delete semantics on the backend.
func (m *Mycelia) callResource(ctx context.Context, token string, payload map[string]interface{}) (json.RawMessage, error) {
	return m.post(ctx, objectsResourcePath, token, payload)
}

func (m *Mycelia) post(ctx context.Context, path, token string, payload map[string]interface{}) (json.RawMessage, error) {
	op := "POST " + path

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.Network(op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Network(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, errs.Network(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Network(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.API(op, resp.StatusCode, string(raw))
	}
	return raw, nil
}

// AddMemory stores the transcript as a Mycelia object. The details field
// holds the raw text; the alias set makes it searchable by source or client.
func (m *Mycelia) AddMemory(ctx context.Context, req AddMemoryRequest) (bool, []string) {
	providerOps.WithLabelValues("add").Inc()

	token, err := m.userToken(ctx, req.UserID, req.UserEmail)
	if err != nil {
		providerFailures.WithLabelValues("add").Inc()
		log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to add memory via Mycelia")
		return false, nil
	}

	preview := req.Transcript
	if r := []rune(preview); len(r) > 50 {
		preview = string(r[:50]) + "..."
	}
	object := map[string]interface{}{
		"name":           "Memory: " + preview,
		"details":        req.Transcript,
		"aliases":        []string{req.SourceID, req.ClientID},
		"isPerson":       false,
		"isPromise":      false,
		"isEvent":        false,
		"isRelationship": false,
		// userId is injected by the backend from the bearer token.
	}

	raw, err := m.callResource(ctx, token, map[string]interface{}{
		"action": "create",
		"object": object,
	})
	if err != nil {
		providerFailures.WithLabelValues("add").Inc()
		log.Error().Err(err).Msg("failed to add memory via Mycelia")
		return false, nil
	}

	var res wire.CreateResult
	if err := json.Unmarshal(raw, &res); err != nil || res.InsertedID.String() == "" {
		providerFailures.WithLabelValues("add").Inc()
		log.Error().Err(err).Msg("failed to create Mycelia memory: no insertedId returned")
		return false, nil
	}

	log.Info().Str("memory_id", res.InsertedID.String()).Msg("created Mycelia memory object")
	return true, []string{res.InsertedID.String()}
}

// SearchMemories runs a search via the list action's searchTerm option.
//
// Mycelia does not expose similarity scores, so relevance is approximated by
// reverse-rank decay: the first result scores 1.0 and each subsequent result
// 0.1 less. Downstream consumers depend on this exact behavior; do not
// substitute a different ranking.
func (m *Mycelia) SearchMemories(ctx context.Context, query, userID string, limit int, scoreThreshold float64) []MemoryEntry {
	providerOps.WithLabelValues("search").Inc()

	if err := m.ensureInitialized(ctx); err != nil {
		providerFailures.WithLabelValues("search").Inc()
		return nil
	}
	objects, err := m.listObjects(ctx, userID, map[string]interface{}{
		"searchTerm": query,
		"limit":      limit,
		"sort":       map[string]int{"updatedAt": -1},
	})
	if err != nil {
		providerFailures.WithLabelValues("search").Inc()
		log.Error().Err(err).Msg("failed to search memories via Mycelia")
		return nil
	}

	entries := make([]MemoryEntry, 0, len(objects))
	for i, obj := range objects {
		score := 1.0 - float64(i)*0.1
		if score < scoreThreshold {
			continue
		}
		e := entryFromObject(obj, userID)
		s := score
		e.Score = &s
		entries = append(entries, e)
	}
	return entries
}

// GetAllMemories lists the user's memories, most recently updated first.
func (m *Mycelia) GetAllMemories(ctx context.Context, userID string, limit int) []MemoryEntry {
	providerOps.WithLabelValues("list").Inc()

	if err := m.ensureInitialized(ctx); err != nil {
		providerFailures.WithLabelValues("list").Inc()
		return nil
	}
	objects, err := m.listObjects(ctx, userID, map[string]interface{}{
		"limit": limit,
		"sort":  map[string]int{"updatedAt": -1},
	})
	if err != nil {
		providerFailures.WithLabelValues("list").Inc()
		log.Error().Err(err).Msg("failed to list memories via Mycelia")
		return nil
	}

	entries := make([]MemoryEntry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, entryFromObject(obj, userID))
	}
	return entries
}

// listObjects issues a list action scoped to the user's token. Filters stay
// empty; the backend scopes by the userId baked into the token.
func (m *Mycelia) listObjects(ctx context.Context, userID string, options map[string]interface{}) ([]wire.Object, error) {
	token, err := m.userToken(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	raw, err := m.callResource(ctx, token, map[string]interface{}{
		"action":  "list",
		"filters": map[string]interface{}{},
		"options": options,
	})
	if err != nil {
		return nil, err
	}
	var objects []wire.Object
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, errs.Network("decode list response", err)
	}
	return objects, nil
}

// CountMemories asks the raw aggregation endpoint for the user's total.
func (m *Mycelia) CountMemories(ctx context.Context, userID string) (int, error) {
	providerOps.WithLabelValues("count").Inc()

	if err := m.ensureInitialized(ctx); err != nil {
		providerFailures.WithLabelValues("count").Inc()
		return 0, err
	}
	token, err := m.userToken(ctx, userID, "")
	if err != nil {
		providerFailures.WithLabelValues("count").Inc()
		return 0, err
	}
	raw, err := m.post(ctx, mongoResourcePath, token, map[string]interface{}{
		"action":     "count",
		"collection": "objects",
		"query":      map[string]string{"userId": userID},
	})
	if err != nil {
		providerFailures.WithLabelValues("count").Inc()
		log.Error().Err(err).Msg("failed to count memories via Mycelia")
		return 0, err
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		providerFailures.WithLabelValues("count").Inc()
		return 0, errs.Network("decode count response", err)
	}
	return n, nil
}

// DeleteMemory removes a single memory. The user identity is an
// authorization guard: without a userID no token can be minted, so the call
// returns false before any request is issued.
func (m *Mycelia) DeleteMemory(ctx context.Context, memoryID, userID, userEmail string) bool {
	providerOps.WithLabelValues("delete").Inc()

	if userID == "" {
		providerFailures.WithLabelValues("delete").Inc()
		log.Error().Str("memory_id", memoryID).Msg("user ID required for Mycelia delete operation")
		return false
	}
	token, err := m.userToken(ctx, userID, userEmail)
	if err != nil {
		providerFailures.WithLabelValues("delete").Inc()
		log.Error().Err(err).Msg("failed to delete memory via Mycelia")
		return false
	}
	raw, err := m.callResource(ctx, token, map[string]interface{}{
		"action": "delete",
		"id":     memoryID,
	})
	if err != nil {
		providerFailures.WithLabelValues("delete").Inc()
		log.Error().Err(err).Msg("failed to delete memory via Mycelia")
		return false
	}

	var res wire.DeleteResult
	if err := json.Unmarshal(raw, &res); err != nil || res.DeletedCount == 0 {
		providerFailures.WithLabelValues("delete").Inc()
		log.Warn().Str("memory_id", memoryID).Msg("no memory deleted")
		return false
	}
	log.Info().Str("memory_id", memoryID).Msg("deleted Mycelia memory object")
	return true
}

// DeleteAllMemories sweeps the user's memories with list-then-delete-each.
// The sweep is not atomic: a concurrent create may or may not be captured,
// and a partial failure leaves earlier deletions in place. The returned
// count reflects confirmed deletions only.
func (m *Mycelia) DeleteAllMemories(ctx context.Context, userID string) int {
	providerOps.WithLabelValues("delete_all").Inc()

	objects, err := m.listObjects(ctx, userID, map[string]interface{}{"limit": sweepLimit})
	if err != nil {
		providerFailures.WithLabelValues("delete_all").Inc()
		log.Error().Err(err).Msg("failed to delete user memories via Mycelia")
		return 0
	}

	deleted := 0
	for _, obj := range objects {
		if m.DeleteMemory(ctx, obj.ID.String(), userID, "") {
			deleted++
		}
	}
	log.Info().Int("deleted", deleted).Str("user_id", userID).Msg("deleted Mycelia memories for user")
	return deleted
}

// TestConnection probes liveness, initializing lazily on first use.
func (m *Mycelia) TestConnection(ctx context.Context) bool {
	if !m.initialized {
		if err := m.Initialize(ctx); err != nil {
			return false
		}
		return true
	}
	if err := m.healthProbe(ctx); err != nil {
		log.Error().Err(err).Msg("Mycelia connection test failed")
		return false
	}
	return true
}

// Shutdown releases idle connections. Idempotent.
func (m *Mycelia) Shutdown() error {
	if !atomic.CompareAndSwapUint32(&m.closedOnce, 0, 1) {
		return nil
	}
	log.Info().Msg("shutting down Mycelia memory provider")
	m.http.CloseIdleConnections()
	m.initialized = false
	return nil
}

var _ Provider = (*Mycelia)(nil)
