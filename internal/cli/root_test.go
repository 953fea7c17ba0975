package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/voxdiary/voxdiary/internal/models"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short text unchanged", text: "hello world", n: 60, want: "hello world"},
		{name: "newlines collapsed", text: "line one\nline two", n: 60, want: "line one line two"},
		{name: "truncated with ellipsis", text: "abcdefghij", n: 5, want: "abcde…"},
		{name: "rune safe truncation", text: "héllo wörld", n: 6, want: "héllo …"},
		{name: "empty", text: "", n: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.n); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{seconds: 0, want: "0:00"},
		{seconds: 5, want: "0:05"},
		{seconds: 59.6, want: "1:00"},
		{seconds: 65, want: "1:05"},
		{seconds: 600, want: "10:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatEntryLine(t *testing.T) {
	duration := 65.0
	e := models.NewEntry(time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local), "a quiet morning")
	e.Title = "Morning"
	e.Mood = models.MoodLove
	e.Tags = []string{"walk", "coffee"}
	e.AudioFileName = "a.m4a"
	e.AudioDurationSeconds = &duration

	line := FormatEntryLine(e, true)
	for _, want := range []string{
		"2024-03-04 10:00",
		"[love]",
		"Morning",
		"a quiet morning",
		"(#walk #coffee)",
		"[audio 1:05]",
		e.ID.String(),
	} {
		if !strings.Contains(line, want) {
			t.Errorf("FormatEntryLine() = %q, missing %q", line, want)
		}
	}

	plain := FormatEntryLine(models.NewEntry(time.Now(), "typed"), false)
	if strings.Contains(plain, "ID:") || strings.Contains(plain, "[audio") {
		t.Errorf("FormatEntryLine() = %q, has id or audio marker for a plain entry", plain)
	}
}

func TestResolveDate(t *testing.T) {
	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ResolveDate("")
		if err != nil {
			t.Fatalf("ResolveDate() error = %v", err)
		}
		now := time.Now()
		if got.Year() != now.Year() || got.YearDay() != now.YearDay() {
			t.Errorf("ResolveDate(\"\") = %v, want today", got)
		}
	})

	t.Run("explicit date", func(t *testing.T) {
		got, err := ResolveDate("2024-03-04")
		if err != nil {
			t.Fatalf("ResolveDate() error = %v", err)
		}
		want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("ResolveDate() = %v, want %v", got, want)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		if _, err := ResolveDate("04.03.2024"); err == nil {
			t.Error("ResolveDate() accepted invalid format")
		}
	})
}
