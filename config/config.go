// Package config loads environment-driven configuration for the Chronicle
// integration adapters.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds process-wide settings read once at startup.
type Config struct {
	// Mycelia memory backend
	MyceliaURL     string        `envconfig:"MYCELIA_API_URL" default:"http://localhost:8080"`
	MyceliaTimeout time.Duration `envconfig:"MYCELIA_TIMEOUT" default:"30s"`

	// Token issuance for per-user backend authentication
	AuthSecretKey string        `envconfig:"AUTH_SECRET_KEY" default:""`
	AuthAudience  string        `envconfig:"AUTH_AUDIENCE" default:"chronicle:auth"`
	AuthTokenTTL  time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"1h"`

	// LLM completion
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:""`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// Transcription
	TranscriptionProvider string `envconfig:"TRANSCRIPTION_PROVIDER" default:"deepgram"`
	DeepgramAPIKey        string `envconfig:"DEEPGRAM_API_KEY" default:""`
}

// Load reads Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SpeechSettings holds the speech-detection thresholds.
type SpeechSettings struct {
	MinWords      int     `envconfig:"SPEECH_DETECTION_MIN_WORDS" default:"5"`
	MinConfidence float64 `envconfig:"SPEECH_DETECTION_MIN_CONFIDENCE" default:"0.5"`
}

// SpeechDetection reads the thresholds from the environment on every call,
// so an operator can change them without restarting the service. A malformed
// value falls back to the defaults.
func SpeechDetection() SpeechSettings {
	var s SpeechSettings
	if err := envconfig.Process("", &s); err != nil {
		log.Warn().Err(err).Msg("invalid speech detection settings, using defaults")
		return SpeechSettings{MinWords: 5, MinConfidence: 0.5}
	}
	return s
}
