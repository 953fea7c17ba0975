package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/models"
	"github.com/voxdiary/voxdiary/internal/storage"
	"github.com/voxdiary/voxdiary/internal/transcribe"
	"github.com/voxdiary/voxdiary/internal/utils"
)

// Context carries the shared collaborators into command Run methods.
type Context struct {
	Store        storage.Provider
	Pipeline     *transcribe.Pipeline
	DataDir      string
	SpeechEngine string
}

// ResolveDate parses an optional YYYY-MM-DD argument, defaulting to today.
func ResolveDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := utils.ParseDate(s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}

// FormatEntryLine renders one entry for list output.
func FormatEntryLine(e models.Entry, showID bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s  [%s]", e.Date.Local().Format(constants.DateTimeFormat), e.Mood)
	if e.Title != "" {
		fmt.Fprintf(&b, " %s —", e.Title)
	}
	fmt.Fprintf(&b, " %s", Preview(e.Text, 60))
	if len(e.Tags) > 0 {
		fmt.Fprintf(&b, " (#%s)", strings.Join(e.Tags, " #"))
	}
	if e.AudioFileName != "" {
		if e.AudioDurationSeconds != nil {
			fmt.Fprintf(&b, " [audio %s]", FormatDuration(*e.AudioDurationSeconds))
		} else {
			b.WriteString(" [audio]")
		}
	}
	if showID {
		fmt.Fprintf(&b, " (ID: %s)", e.ID)
	}
	return b.String()
}

// Preview truncates text to n runes on a single line.
func Preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "…"
}

// FormatDuration renders seconds as M:SS.
func FormatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
