package transcribe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.m4a")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func staticKey(key string) CredentialFunc {
	return func() (string, error) { return key, nil }
}

func TestWhisperTranscribe(t *testing.T) {
	audioPath := writeAudioFixture(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("request path = %q, want /v1/audio/transcriptions", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q, want Bearer sk-test", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm() error = %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model field = %q, want whisper-1", got)
		}
		if got := r.FormValue("response_format"); got != "json" {
			t.Errorf("response_format field = %q, want json", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile() error = %v", err)
		}
		defer file.Close()
		if header.Filename != "audio.m4a" {
			t.Errorf("file part filename = %q, want audio.m4a", header.Filename)
		}
		if got := header.Header.Get("Content-Type"); got != "audio/m4a" {
			t.Errorf("file part content type = %q, want audio/m4a", got)
		}
		w.Write([]byte(`{"text":"hello from whisper"}`))
	}))
	defer srv.Close()

	p := NewWhisperProvider(staticKey("sk-test"), WithWhisperBaseURL(srv.URL))
	text, err := p.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello from whisper" {
		t.Errorf("Transcribe() = %q, want %q", text, "hello from whisper")
	}
}

func TestWhisperMissingCredential(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tests := []struct {
		name       string
		credential CredentialFunc
	}{
		{name: "empty key", credential: staticKey("")},
		{name: "lookup error", credential: func() (string, error) { return "", errors.New("no keyring") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewWhisperProvider(tt.credential, WithWhisperBaseURL(srv.URL))
			_, err := p.Transcribe(context.Background(), writeAudioFixture(t))
			if got := KindOf(err); got != KindMissingCredential {
				t.Errorf("KindOf(err) = %v, want %v", got, KindMissingCredential)
			}
		})
	}
	if called {
		t.Error("provider issued an HTTP request without a credential")
	}
}

func TestWhisperHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	p := NewWhisperProvider(staticKey("sk-test"), WithWhisperBaseURL(srv.URL))
	_, err := p.Transcribe(context.Background(), writeAudioFixture(t))

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("Transcribe() error = %T, want *Error", err)
	}
	if te.Kind != KindHTTP || te.Status != http.StatusTooManyRequests || te.Body != "rate limited" {
		t.Errorf("error = %+v, want http kind with status 429 and body", te)
	}
}

func TestWhisperDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	p := NewWhisperProvider(staticKey("sk-test"), WithWhisperBaseURL(srv.URL))
	_, err := p.Transcribe(context.Background(), writeAudioFixture(t))
	if got := KindOf(err); got != KindDecode {
		t.Errorf("KindOf(err) = %v, want %v", got, KindDecode)
	}
}

func TestWhisperUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	p := NewWhisperProvider(staticKey("sk-test"), WithWhisperBaseURL(srv.URL))
	_, err := p.Transcribe(context.Background(), writeAudioFixture(t))

	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("Transcribe() error = %T, want *Error", err)
	}
	if te.Kind != KindHTTP || te.Status != 0 {
		t.Errorf("error = %+v, want http kind with status 0", te)
	}
}
