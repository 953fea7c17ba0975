package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Recognizer is the on-device speech capability behind SpeechProvider.
type Recognizer interface {
	// RequestAuthorization asks the platform for permission to recognize speech.
	RequestAuthorization(ctx context.Context) (bool, error)
	// Available reports whether the recognizer can serve the given locale.
	// An empty locale means "any".
	Available(locale string) bool
	// Transcribe recognizes the audio file using the given locale.
	Transcribe(ctx context.Context, locale, audioPath string) (string, error)
}

// SpeechProvider adapts an on-device Recognizer to the Provider interface.
// Locale resolution order: the user's preferred languages, then the system
// locale, then any available recognizer.
type SpeechProvider struct {
	rec     Recognizer
	locales []string
}

// NewSpeechProvider builds the on-device fallback provider. preferredLocales
// are tried before the system locale.
func NewSpeechProvider(rec Recognizer, preferredLocales ...string) *SpeechProvider {
	locales := make([]string, 0, len(preferredLocales)+2)
	for _, l := range preferredLocales {
		if l != "" {
			locales = append(locales, l)
		}
	}
	if sys := systemLocale(); sys != "" {
		locales = append(locales, sys)
	}
	locales = append(locales, "") // any available recognizer
	return &SpeechProvider{rec: rec, locales: locales}
}

func (p *SpeechProvider) Name() string { return "speech" }

// Transcribe requests authorization, resolves a usable locale and runs the
// recognizer once. Denied authorization and no-usable-locale surface as
// distinct error kinds.
func (p *SpeechProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	ok, err := p.rec.RequestAuthorization(ctx)
	if err != nil {
		return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
	}
	if !ok {
		return "", &Error{Kind: KindNotAuthorized, Provider: p.Name()}
	}

	for _, locale := range p.locales {
		if !p.rec.Available(locale) {
			continue
		}
		text, err := p.rec.Transcribe(ctx, locale, audioPath)
		if err != nil {
			return "", &Error{Kind: KindFailed, Provider: p.Name(), Err: err}
		}
		return text, nil
	}
	return "", &Error{Kind: KindUnavailable, Provider: p.Name()}
}

// systemLocale derives a BCP 47-ish language tag from the environment,
// e.g. "en_US.UTF-8" becomes "en-US".
func systemLocale() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

// ExecRecognizer runs an external speech engine executable (whisper.cpp
// style) as the on-device recognizer. Resolving the engine binary is the CLI
// analog of platform speech authorization.
type ExecRecognizer struct {
	// Command is the engine executable name or path.
	Command string
	// ExtraArgs are passed before the audio path.
	ExtraArgs []string
}

func (r *ExecRecognizer) RequestAuthorization(ctx context.Context) (bool, error) {
	_, err := exec.LookPath(r.Command)
	return err == nil, nil
}

func (r *ExecRecognizer) Available(locale string) bool {
	_, err := exec.LookPath(r.Command)
	return err == nil
}

func (r *ExecRecognizer) Transcribe(ctx context.Context, locale, audioPath string) (string, error) {
	args := make([]string, 0, len(r.ExtraArgs)+3)
	args = append(args, r.ExtraArgs...)
	if locale != "" {
		args = append(args, "--language", primaryLanguage(locale))
	}
	args = append(args, audioPath)

	cmd := exec.CommandContext(ctx, r.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("speech engine failed: %w", err)
		}
		return "", fmt.Errorf("speech engine failed: %s: %w", msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// primaryLanguage reduces a locale tag to its language subtag ("en-US" -> "en").
func primaryLanguage(locale string) string {
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return locale[:i]
	}
	return locale
}
