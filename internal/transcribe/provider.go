package transcribe

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a transcription failure so callers can branch on it
// instead of string-matching messages.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindHTTP              Kind = "http"
	KindDecode            Kind = "decode"
	KindNotAuthorized     Kind = "not_authorized"
	KindUnavailable       Kind = "unavailable"
	KindFailed            Kind = "failed"
)

// Error is a transcription failure from a single provider attempt.
type Error struct {
	Kind     Kind
	Provider string
	Status   int    // KindHTTP only
	Body     string // KindHTTP only
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingCredential:
		return "missing transcription API key"
	case KindHTTP:
		if e.Status == 0 {
			return fmt.Sprintf("transcription request failed: %v", e.Err)
		}
		return fmt.Sprintf("transcription API failed (%d): %s", e.Status, e.Body)
	case KindDecode:
		return "failed to decode transcription response"
	case KindNotAuthorized:
		return "speech recognition not authorized"
	case KindUnavailable:
		return "speech recognizer unavailable for requested locales"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "transcription failed"
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind carried by err, or KindFailed when err is
// not a transcription error.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindFailed
}

// Provider converts an audio resource into text. Implementations are tried
// exactly once per pipeline invocation and hold no state between calls.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
