// Package transcription defines the transcription-provider capability and a
// chunk-buffering consumer that feeds audio to it.
//
// Providers are registered by name and resolved once at startup; the vendor
// speech engines themselves live behind the Provider interface and are out
// of scope here.
package transcription

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chronicle/chronicle-backend/config"
	"github.com/chronicle/chronicle-backend/conversation"
	"github.com/chronicle/chronicle-backend/speech"
)

// Result is a transcription outcome: full text, word-level records, speaker
// segments, and the mean word confidence.
type Result struct {
	Text       string                 `json:"text"`
	Words      []speech.Word          `json:"words"`
	Segments   []conversation.Segment `json:"segments"`
	Confidence float64                `json:"confidence"`
}

// Transcript converts the result into the speech-analysis input shape.
func (r *Result) Transcript() speech.Transcript {
	return speech.Transcript{Text: r.Text, Words: r.Words}
}

// Provider transcribes a buffered audio payload.
type Provider interface {
	Transcribe(ctx context.Context, audio []byte, sampleRate int, diarize bool) (*Result, error)
}

// Factory builds a Provider from process configuration.
type Factory func(cfg *config.Config) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider factory available under name. Intended to be
// called from package init functions; registering the same name twice
// panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("transcription: provider %q registered twice", name))
	}
	registry[name] = f
}

// New resolves the named provider. Resolution happens once at startup, not
// per call.
func New(name string, cfg *config.Config) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("transcription: unknown provider %q (registered: %v)", name, Names())
	}
	return f(cfg)
}

// Names lists the registered provider names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
