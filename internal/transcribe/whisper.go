package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"time"
)

const (
	defaultWhisperBaseURL = "https://api.openai.com"
	defaultWhisperModel   = "whisper-1"
)

// CredentialFunc supplies the API key at call time. Absence (empty key or an
// error) is a normal, handled condition that skips the provider.
type CredentialFunc func() (string, error)

// WhisperOption configures a WhisperProvider.
type WhisperOption func(*WhisperProvider)

// WithWhisperBaseURL overrides the API base URL.
func WithWhisperBaseURL(url string) WhisperOption {
	return func(p *WhisperProvider) { p.baseURL = url }
}

// WithWhisperHTTPClient sets a custom HTTP client.
func WithWhisperHTTPClient(c *http.Client) WhisperOption {
	return func(p *WhisperProvider) { p.client = c }
}

// WithWhisperModel overrides the transcription model.
func WithWhisperModel(model string) WhisperOption {
	return func(p *WhisperProvider) { p.model = model }
}

// WhisperProvider transcribes audio through the OpenAI Whisper API.
type WhisperProvider struct {
	credential CredentialFunc
	baseURL    string
	client     *http.Client
	model      string
}

// NewWhisperProvider creates the cloud transcription provider.
func NewWhisperProvider(credential CredentialFunc, opts ...WhisperOption) *WhisperProvider {
	p := &WhisperProvider{
		credential: credential,
		baseURL:    defaultWhisperBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		model:      defaultWhisperModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WhisperProvider) Name() string { return "whisper" }

// Transcribe uploads the audio file as multipart form data and returns the
// transcribed text.
func (p *WhisperProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	key, err := p.credential()
	if err != nil || key == "" {
		return "", &Error{Kind: KindMissingCredential, Provider: p.Name(), Err: err}
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("model", p.model); err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	if err := w.WriteField("response_format", "json"); err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="audio.m4a"`)
	h.Set("Content-Type", "audio/m4a")
	part, err := w.CreatePart(h)
	if err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &Error{Kind: KindHTTP, Provider: p.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: KindHTTP, Provider: p.Name(), Status: resp.StatusCode, Body: string(body)}
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &Error{Kind: KindDecode, Provider: p.Name(), Err: err}
	}
	return decoded.Text, nil
}
