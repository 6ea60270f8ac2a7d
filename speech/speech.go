// Package speech decides whether a transcription result contains meaningful
// speech worth persisting as a conversation.
package speech

import (
	"fmt"
	"strings"

	"github.com/chronicle/chronicle-backend/config"
)

// Word is one word-level transcription record. Confidence is in [0,1];
// Start and End are offsets in seconds.
type Word struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

// Transcript is the input to speech analysis. Words may be empty when the
// provider returned text only.
type Transcript struct {
	Text  string `json:"text"`
	Words []Word `json:"words,omitempty"`
}

// Analysis is the result of a speech-detection pass. It is a pure value.
type Analysis struct {
	HasSpeech bool    `json:"has_speech"`
	Reason    string  `json:"reason"`
	WordCount int     `json:"word_count"`
	Duration  float64 `json:"duration"`
	Start     float64 `json:"speech_start,omitempty"`
	End       float64 `json:"speech_end,omitempty"`
	// Fallback marks a text-only decision made without confidence data.
	Fallback bool `json:"fallback,omitempty"`
}

// Analyze classifies the transcript against the given thresholds.
//
// The word-level path filters words below MinConfidence and requires at
// least MinWords survivors; duration is the span from the first qualifying
// word's start to the last qualifying word's end. When no word-level data is
// present the text is split on whitespace and only the count gates the
// decision, with Fallback set so callers can tell a guess from a
// confidence-backed detection.
func Analyze(t Transcript, s config.SpeechSettings) Analysis {
	if len(t.Words) > 0 {
		valid := t.Words[:0:0]
		for _, w := range t.Words {
			if w.Confidence >= s.MinConfidence {
				valid = append(valid, w)
			}
		}

		if len(valid) < s.MinWords {
			return Analysis{
				HasSpeech: false,
				Reason:    fmt.Sprintf("Not enough valid words (%d < %d)", len(valid), s.MinWords),
				WordCount: len(valid),
			}
		}

		start := valid[0].Start
		end := valid[len(valid)-1].End
		return Analysis{
			HasSpeech: true,
			WordCount: len(valid),
			Start:     start,
			End:       end,
			Duration:  end - start,
			Reason:    fmt.Sprintf("Valid speech detected (%d words, %.1fs)", len(valid), end-start),
		}
	}

	if text := strings.TrimSpace(t.Text); text != "" {
		count := len(strings.Fields(text))
		if count >= s.MinWords {
			return Analysis{
				HasSpeech: true,
				WordCount: count,
				Reason:    fmt.Sprintf("Valid speech detected (%d words, no timing data)", count),
				Fallback:  true,
			}
		}
	}

	return Analysis{
		HasSpeech: false,
		Reason:    "No meaningful speech content detected",
	}
}

// Detect runs Analyze with thresholds read from the environment. The read
// happens on every call so configuration changes apply immediately.
func Detect(t Transcript) Analysis {
	return Analyze(t, config.SpeechDetection())
}

// IsMeaningful reports whether the transcript contains meaningful speech.
// Shared by speech detection and the conversation timeout logic.
func IsMeaningful(t Transcript) bool {
	if t.Text == "" {
		return false
	}
	return Detect(t).HasSpeech
}
