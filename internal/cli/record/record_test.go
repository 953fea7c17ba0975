package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/voxdiary/voxdiary/internal/transcribe"
)

func TestTranscriptionFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "missing credential",
			err:  &transcribe.Error{Kind: transcribe.KindMissingCredential},
			want: "no API key configured",
		},
		{
			name: "not authorized",
			err:  &transcribe.Error{Kind: transcribe.KindNotAuthorized},
			want: "speech engine not available",
		},
		{
			name: "unavailable",
			err:  &transcribe.Error{Kind: transcribe.KindUnavailable},
			want: "no speech recognizer usable",
		},
		{
			name: "generic failure",
			err:  errors.New("disk exploded"),
			want: "disk exploded",
		},
		{
			name: "chain unwraps to first typed attempt",
			err: &transcribe.ChainError{Attempts: []error{
				&transcribe.Error{Kind: transcribe.KindMissingCredential},
				&transcribe.Error{Kind: transcribe.KindFailed, Err: errors.New("engine crashed")},
			}},
			want: "no API key configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranscriptionFailureMessage(tt.err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("TranscriptionFailureMessage() = %q, missing %q", got, tt.want)
			}
		})
	}
}
