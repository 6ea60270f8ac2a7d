package transcription

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// defaultBufferChunks batches ~7.5s of audio at 250ms per chunk.
	defaultBufferChunks = 30
	defaultSampleRate   = 16000
)

// Sink receives transcription results as the consumer flushes.
type Sink interface {
	HandleResult(ctx context.Context, sessionID string, res *Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, sessionID string, res *Result) error

// HandleResult implements Sink.
func (f SinkFunc) HandleResult(ctx context.Context, sessionID string, res *Result) error {
	return f(ctx, sessionID, res)
}

// Consumer buffers audio chunks for one session and hands the accumulated
// payload to the transcription provider once enough chunks arrived. Each
// transcription request is attempted exactly once; the provider's diarized
// word list drives the reported mean confidence.
type Consumer struct {
	provider     Provider
	sink         Sink
	sessionID    string
	sampleRate   int
	bufferChunks int

	buf    bytes.Buffer
	chunks int
}

// ConsumerOption configures a Consumer during construction.
type ConsumerOption func(*Consumer) error

// WithBufferChunks overrides how many chunks are buffered before a flush.
func WithBufferChunks(n int) ConsumerOption {
	return func(c *Consumer) error {
		if n <= 0 {
			return fmt.Errorf("buffer chunks must be > 0")
		}
		c.bufferChunks = n
		return nil
	}
}

// WithSampleRate sets the sample rate passed to the provider.
func WithSampleRate(hz int) ConsumerOption {
	return func(c *Consumer) error {
		if hz <= 0 {
			return fmt.Errorf("sample rate must be > 0")
		}
		c.sampleRate = hz
		return nil
	}
}

// NewConsumer constructs a consumer for a fresh session. A missing provider
// is a configuration error and fails here, not on first chunk.
func NewConsumer(provider Provider, sink Sink, opts ...ConsumerOption) (*Consumer, error) {
	if provider == nil {
		return nil, fmt.Errorf("no transcription provider configured")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}
	c := &Consumer{
		provider:     provider,
		sink:         sink,
		sessionID:    uuid.NewString(),
		sampleRate:   defaultSampleRate,
		bufferChunks: defaultBufferChunks,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// SessionID returns the consumer's session identifier.
func (c *Consumer) SessionID() string { return c.sessionID }

// Consume appends one audio chunk, flushing when the buffer is full.
func (c *Consumer) Consume(ctx context.Context, chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	c.buf.Write(chunk)
	c.chunks++
	if c.chunks < c.bufferChunks {
		return nil
	}
	return c.Flush(ctx)
}

// Flush transcribes whatever is buffered and delivers the result to the
// sink. An empty buffer is a no-op.
func (c *Consumer) Flush(ctx context.Context) error {
	if c.buf.Len() == 0 {
		return nil
	}
	audio := make([]byte, c.buf.Len())
	copy(audio, c.buf.Bytes())
	c.buf.Reset()
	c.chunks = 0

	res, err := c.provider.Transcribe(ctx, audio, c.sampleRate, true)
	if err != nil {
		log.Error().Err(err).Str("session_id", c.sessionID).Msg("transcription failed")
		return err
	}
	res.Confidence = meanConfidence(res)

	return c.sink.HandleResult(ctx, c.sessionID, res)
}

// meanConfidence averages word confidences; a result without word-level
// data reports zero.
func meanConfidence(res *Result) float64 {
	if len(res.Words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range res.Words {
		sum += w.Confidence
	}
	return sum / float64(len(res.Words))
}
