package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/voxdiary/voxdiary/internal/logger"
)

const defaultAttemptTimeout = 30 * time.Second

// ChainError aggregates one failure per attempted provider after the whole
// chain has been exhausted. It unwraps to the per-attempt typed errors so
// callers can still branch on kinds.
type ChainError struct {
	Attempts []error
}

func (e *ChainError) Error() string {
	if len(e.Attempts) == 0 {
		return "no transcription providers configured"
	}
	msgs := make([]string, 0, len(e.Attempts))
	for _, err := range e.Attempts {
		msgs = append(msgs, err.Error())
	}
	return "all transcription providers failed: " + strings.Join(msgs, "; ")
}

func (e *ChainError) Unwrap() []error { return e.Attempts }

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithAttemptTimeout bounds each provider attempt.
func WithAttemptTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.timeout = d }
}

// Pipeline tries an ordered sequence of providers and returns the first
// success. Each provider is tried exactly once per invocation under its own
// deadline, so a hung provider degrades into an ordinary failure instead of
// suspending the caller indefinitely. The pipeline holds no state between
// invocations.
type Pipeline struct {
	providers []Provider
	timeout   time.Duration
}

// NewPipeline creates a pipeline over providers in fallback order.
func NewPipeline(providers []Provider, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		providers: providers,
		timeout:   defaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Transcribe converts the audio file to text, falling through the provider
// chain on failure. Exhaustion returns a *ChainError.
func (p *Pipeline) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if len(p.providers) == 0 {
		return "", &ChainError{}
	}

	attempts := make([]error, 0, len(p.providers))
	for _, prov := range p.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, p.timeout)
		text, err := prov.Transcribe(attemptCtx, audioPath)
		cancel()
		if err == nil {
			return text, nil
		}
		logger.Warn("transcription provider failed",
			"provider", prov.Name(), "kind", KindOf(err), "error", err)
		attempts = append(attempts, err)
	}
	return "", &ChainError{Attempts: attempts}
}
