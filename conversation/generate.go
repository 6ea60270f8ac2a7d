// Package conversation builds LLM prompts from conversation transcripts and
// normalizes the completions into titles and summaries.
//
// Generation is fail-soft: a failed or empty completion is replaced by a
// deterministic fallback derived from the source text, never surfaced as an
// error.
package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chronicle/chronicle-backend/llm"
)

const (
	titleFallback    = "Conversation"
	summaryFallback  = "No content"
	detailedFallback = "No meaningful content to summarize"

	// shortSummaryLimit bounds the short summary, ellipsis included.
	shortSummaryLimit = 120

	generationTemperature = 0.3
)

// Segment is one speaker-attributed span of a diarized transcript.
type Segment struct {
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Generator produces titles and summaries through an injected completion
// capability.
type Generator struct {
	completer llm.Completer
}

// NewGenerator constructs a Generator. A nil completer is a configuration
// error and fails here rather than on first use.
func NewGenerator(c llm.Completer) (*Generator, error) {
	if c == nil {
		return nil, fmt.Errorf("completer cannot be nil")
	}
	return &Generator{completer: c}, nil
}

// Title generates a 3-6 word title for the conversation. When segments are
// provided, the first ten are concatenated as the source text. Titles never
// include speaker names regardless of input; inputs shorter than 10
// characters return the fallback without invoking the completion capability.
func (g *Generator) Title(ctx context.Context, text string, segments []Segment) string {
	if len(segments) > 0 {
		head := segments
		if len(head) > 10 {
			head = head[:10]
		}
		var b strings.Builder
		for _, seg := range head {
			if s := strings.TrimSpace(seg.Text); s != "" {
				b.WriteString(s)
				b.WriteString("\n")
			}
		}
		if joined := strings.TrimSpace(b.String()); joined != "" {
			text = joined
		}
	}

	if len(strings.TrimSpace(text)) < 10 {
		return titleFallback
	}

	prompt := fmt.Sprintf(titlePrompt, truncateRunes(text, 500))
	title, err := g.completer.Complete(ctx, prompt, generationTemperature)
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate LLM title")
		return titleFromText(text)
	}
	if cleaned := stripQuotes(title); cleaned != "" {
		return cleaned
	}
	return titleFallback
}

// ShortSummary generates a 1-2 sentence summary capped at 120 characters.
// With multiple distinct speakers in the segments the prompt asks for
// speaker attribution and the transcript is formatted as
// "speaker: utterance" lines.
func (g *Generator) ShortSummary(ctx context.Context, text string, segments []Segment) string {
	source, multiSpeaker := formatSegments(text, segments)
	if len(strings.TrimSpace(source)) < 10 {
		return summaryFallback
	}

	instruction := ""
	if multiSpeaker {
		instruction = shortSummarySpeakerInstruction
	}
	prompt := fmt.Sprintf(shortSummaryPrompt, truncateRunes(source, 1000), instruction)

	summary, err := g.completer.Complete(ctx, prompt, generationTemperature)
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate LLM short summary")
		return clampWithEllipsis(source, shortSummaryLimit)
	}
	if cleaned := stripQuotes(summary); cleaned != "" {
		return clampWithEllipsis(cleaned, shortSummaryLimit)
	}
	return summaryFallback
}

// DetailedSummary generates a comprehensive multi-paragraph summary. The
// fallback is the cleaned transcript, truncated.
func (g *Generator) DetailedSummary(ctx context.Context, text string, segments []Segment) string {
	source, multiSpeaker := formatSegments(text, segments)
	if len(strings.TrimSpace(source)) < 10 {
		return detailedFallback
	}

	instruction := ""
	if multiSpeaker {
		instruction = detailedSummarySpeakerInstruction
	}
	prompt := fmt.Sprintf(detailedSummaryPrompt, source, instruction)

	summary, err := g.completer.Complete(ctx, prompt, generationTemperature)
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate detailed summary")
		return clampWithEllipsis(cleanLines(source), 2000)
	}
	if cleaned := stripQuotes(summary); cleaned != "" {
		return cleaned
	}
	return detailedFallback
}

// formatSegments renders segments as "speaker: utterance" lines and reports
// whether more than one distinct speaker label appeared. Without usable
// segment text the plain transcript passes through unchanged.
func formatSegments(text string, segments []Segment) (string, bool) {
	if len(segments) == 0 {
		return text, false
	}

	var b strings.Builder
	speakers := map[string]struct{}{}
	for _, seg := range segments {
		s := strings.TrimSpace(seg.Text)
		if s == "" {
			continue
		}
		if seg.Speaker != "" {
			b.WriteString(seg.Speaker)
			b.WriteString(": ")
			speakers[seg.Speaker] = struct{}{}
		}
		b.WriteString(s)
		b.WriteString("\n")
	}

	formatted := b.String()
	if strings.TrimSpace(formatted) == "" {
		return text, false
	}
	return formatted, len(speakers) > 1
}

// titleFromText derives a deterministic title from the first words of the
// source when the completion call fails.
func titleFromText(text string) string {
	words := strings.Fields(text)
	if len(words) > 6 {
		words = words[:6]
	}
	title := strings.Join(words, " ")
	if title == "" {
		return titleFallback
	}
	return clampWithEllipsis(title, 40)
}

// stripQuotes trims whitespace and one layer of wrapping quotation marks.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	return strings.TrimSpace(s)
}

// clampWithEllipsis truncates s so the result, ellipsis included, never
// exceeds limit runes.
func clampWithEllipsis(s string, limit int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// truncateRunes cuts s to at most n runes without adding an ellipsis.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// cleanLines drops blank lines and trims each remaining line.
func cleanLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}
