package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chronicle/chronicle-backend/llm"
)

// capturingCompleter records the prompt and returns a canned reply.
func capturingCompleter(reply string, prompt *string) llm.Completer {
	return llm.CompleterFunc(func(ctx context.Context, p string, temperature float32) (string, error) {
		if prompt != nil {
			*prompt = p
		}
		return reply, nil
	})
}

var failingCompleter = llm.CompleterFunc(func(ctx context.Context, p string, temperature float32) (string, error) {
	return "", errors.New("upstream unavailable")
})

func mustGenerator(t *testing.T, c llm.Completer) *Generator {
	t.Helper()
	g, err := NewGenerator(c)
	require.NoError(t, err)
	return g
}

func TestNewGeneratorRejectsNilCompleter(t *testing.T) {
	_, err := NewGenerator(nil)
	require.Error(t, err)
}

func TestTitleShortInputSkipsCompletion(t *testing.T) {
	called := false
	g := mustGenerator(t, llm.CompleterFunc(func(ctx context.Context, p string, temperature float32) (string, error) {
		called = true
		return "anything", nil
	}))

	require.Equal(t, "Conversation", g.Title(context.Background(), "hey", nil))
	require.False(t, called, "completion capability must not be invoked for short input")
}

func TestTitleStripsWrappingQuotes(t *testing.T) {
	g := mustGenerator(t, capturingCompleter(`"Planning Weekend Trip"`, nil))
	require.Equal(t, "Planning Weekend Trip", g.Title(context.Background(), "let's talk about the weekend trip", nil))
}

func TestTitleFallbackOnCompletionFailure(t *testing.T) {
	g := mustGenerator(t, failingCompleter)
	got := g.Title(context.Background(), "one two three four five six seven eight", nil)
	require.Equal(t, "one two three four five six", got)
}

func TestTitleEmptyCompletionFallsBack(t *testing.T) {
	g := mustGenerator(t, capturingCompleter("  ", nil))
	require.Equal(t, "Conversation", g.Title(context.Background(), "a conversation about something", nil))
}

func TestTitleUsesSegmentTextWithoutSpeakers(t *testing.T) {
	var prompt string
	g := mustGenerator(t, capturingCompleter("Team Standup Recap", &prompt))

	segments := []Segment{
		{Speaker: "alice", Text: "yesterday I finished the migration"},
		{Speaker: "bob", Text: "today I'll review the rollout plan"},
	}
	got := g.Title(context.Background(), "", segments)
	require.Equal(t, "Team Standup Recap", got)
	require.Contains(t, prompt, "yesterday I finished the migration")
	require.NotContains(t, prompt, "alice:", "title prompt must not carry speaker labels")
}

func TestTitleLimitsSegmentsToTen(t *testing.T) {
	var prompt string
	g := mustGenerator(t, capturingCompleter("t", &prompt))

	segments := make([]Segment, 12)
	for i := range segments {
		segments[i] = Segment{Text: "segment number " + string(rune('a'+i))}
	}
	g.Title(context.Background(), "", segments)
	require.Contains(t, prompt, "segment number j")
	require.NotContains(t, prompt, "segment number k")
}

func TestShortSummaryMultiSpeakerPrompt(t *testing.T) {
	var prompt string
	g := mustGenerator(t, capturingCompleter("John plans a trip with Sarah.", &prompt))

	segments := []Segment{
		{Speaker: "John", Text: "should we drive up on Friday"},
		{Speaker: "Sarah", Text: "Saturday morning works better for me"},
	}
	got := g.ShortSummary(context.Background(), "", segments)
	require.Equal(t, "John plans a trip with Sarah.", got)
	require.Contains(t, prompt, "John: should we drive up on Friday")
	require.Contains(t, prompt, "Include speaker names when relevant")
}

func TestShortSummarySingleSpeakerOmitsInstruction(t *testing.T) {
	var prompt string
	g := mustGenerator(t, capturingCompleter("A monologue about plans.", &prompt))

	segments := []Segment{
		{Speaker: "John", Text: "I think we should leave early"},
		{Speaker: "John", Text: "traffic gets bad after nine"},
	}
	g.ShortSummary(context.Background(), "", segments)
	require.NotContains(t, prompt, "Include speaker names when relevant")
}

func TestShortSummaryClampedTo120(t *testing.T) {
	long := strings.Repeat("word ", 60)
	g := mustGenerator(t, capturingCompleter(long, nil))

	got := g.ShortSummary(context.Background(), "a conversation about many words", nil)
	require.LessOrEqual(t, len([]rune(got)), 120)
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestShortSummaryFallbackTruncatesWithEllipsisWithinLimit(t *testing.T) {
	long := strings.Repeat("the quick brown fox jumps over the lazy dog ", 10)
	g := mustGenerator(t, failingCompleter)

	got := g.ShortSummary(context.Background(), long, nil)
	require.LessOrEqual(t, len([]rune(got)), 120, "ellipsis counts against the limit")
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestShortSummaryEmptyInput(t *testing.T) {
	g := mustGenerator(t, failingCompleter)
	require.Equal(t, "No content", g.ShortSummary(context.Background(), "hi", nil))
}

func TestDetailedSummaryMultiSpeakerInstruction(t *testing.T) {
	var prompt string
	g := mustGenerator(t, capturingCompleter("A detailed recap.", &prompt))

	segments := []Segment{
		{Speaker: "alice", Text: "we need to decide on the venue"},
		{Speaker: "bob", Text: "I vote for the park"},
	}
	got := g.DetailedSummary(context.Background(), "", segments)
	require.Equal(t, "A detailed recap.", got)
	require.Contains(t, prompt, "Attribute key points and statements to specific speakers")
}

func TestDetailedSummaryFallbackCleansTranscript(t *testing.T) {
	g := mustGenerator(t, failingCompleter)
	got := g.DetailedSummary(context.Background(), "  line one  \n\n  line two  \n", nil)
	require.Equal(t, "line one\nline two", got)
}

func TestDetailedSummaryEmptyInput(t *testing.T) {
	g := mustGenerator(t, failingCompleter)
	require.Equal(t, "No meaningful content to summarize", g.DetailedSummary(context.Background(), "", nil))
}
