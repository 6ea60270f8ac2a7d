// Package testenv bootstraps the integration-test environment: it resolves
// repository paths, loads dotenv files with the correct precedence, and
// exposes the endpoints and credentials the test suites share.
//
// Precedence, highest first: shell/CI environment variables, then .env.test,
// then .env. godotenv never overrides variables that are already set, so
// loading .env.test before .env yields exactly that ordering.
package testenv

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	// APIURL is the backend under test.
	APIURL = "http://localhost:8001"
	// APIBase prefixes the versioned API routes.
	APIBase = APIURL + "/api"

	// Test credentials matching the docker compose test stack.
	AdminEmail       = "test-admin@example.com"
	AdminPassword    = "test-admin-password-123"
	TestUserEmail    = "test@example.com"
	TestUserPassword = "test-password"

	readinessAttempts = 3
	readinessDelay    = time.Second
)

// Endpoints maps logical names to backend routes.
var Endpoints = map[string]string{
	"health":        "/health",
	"readiness":     "/readiness",
	"auth":          "/auth/jwt/login",
	"conversations": "/api/conversations",
	"memories":      "/api/memories",
	"memory_search": "/api/memories/search",
	"users":         "/api/users",
}

// Env holds the resolved test environment.
type Env struct {
	RepoRoot   string
	BackendDir string
	WebURL     string

	OpenAIAPIKey   string
	DeepgramAPIKey string

	ComposeProject string
}

// Load resolves the repository root, applies the dotenv files and reads the
// environment. Missing dotenv files are not an error; missing keys stay
// empty.
func Load() (*Env, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, err
	}
	backendDir := filepath.Join(root, "backends", "advanced")

	// Load in reverse order of precedence; godotenv fills only unset keys.
	for _, name := range []string{".env.test", ".env"} {
		path := filepath.Join(backendDir, name)
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("failed to load dotenv file")
		}
	}

	project := os.Getenv("COMPOSE_PROJECT_NAME")
	if project == "" {
		project = "advanced"
	}

	return &Env{
		RepoRoot:       root,
		BackendDir:     backendDir,
		WebURL:         envOrDefault("FRONTEND_URL", "http://localhost:3001"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),
		ComposeProject: project,
	}, nil
}

// Container returns the docker container name for a service in the test
// stack.
func (e *Env) Container(service string) string {
	return fmt.Sprintf("%s-%s-test-1", e.ComposeProject, service)
}

// WaitForBackend polls the health endpoint until it answers 200, retrying
// with a constant delay. This is the only place the test tooling retries
// anything; production call paths attempt each request exactly once.
func WaitForBackend(ctx context.Context, baseURL string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	probe := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+Endpoints["health"], nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health returned %d", resp.StatusCode)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(readinessDelay), readinessAttempts),
		ctx,
	)
	return backoff.Retry(probe, policy)
}

// repoRoot walks up from the working directory until it finds go.mod.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above working directory")
		}
		dir = parent
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
