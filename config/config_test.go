package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.MyceliaURL)
	require.Equal(t, 30*time.Second, cfg.MyceliaTimeout)
	require.Equal(t, time.Hour, cfg.AuthTokenTTL)
}

func TestSpeechDetectionDefaults(t *testing.T) {
	s := SpeechDetection()
	require.Equal(t, 5, s.MinWords)
	require.Equal(t, 0.5, s.MinConfidence)
}

func TestSpeechDetectionReadsEnvPerCall(t *testing.T) {
	t.Setenv("SPEECH_DETECTION_MIN_WORDS", "3")
	t.Setenv("SPEECH_DETECTION_MIN_CONFIDENCE", "0.8")
	s := SpeechDetection()
	require.Equal(t, 3, s.MinWords)
	require.Equal(t, 0.8, s.MinConfidence)

	t.Setenv("SPEECH_DETECTION_MIN_WORDS", "7")
	require.Equal(t, 7, SpeechDetection().MinWords)
}

func TestSpeechDetectionFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SPEECH_DETECTION_MIN_WORDS", "not-a-number")
	s := SpeechDetection()
	require.Equal(t, 5, s.MinWords)
	require.Equal(t, 0.5, s.MinConfidence)
}
