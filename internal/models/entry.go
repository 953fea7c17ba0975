package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Mood is one of a fixed set of affect tags attached to an entry.
type Mood string

const (
	MoodCool  Mood = "cool"
	MoodLove  Mood = "love"
	MoodSad   Mood = "sad"
	MoodAngry Mood = "angry"
	MoodHappy Mood = "happy"
)

// DefaultMood is applied when a stored record carries no recognizable mood.
const DefaultMood = MoodHappy

// AllMoods lists every mood in rank order.
var AllMoods = []Mood{MoodCool, MoodLove, MoodSad, MoodAngry, MoodHappy}

func (m Mood) Valid() bool {
	switch m {
	case MoodCool, MoodLove, MoodSad, MoodAngry, MoodHappy:
		return true
	}
	return false
}

// DisplayName returns the human-readable label for the mood.
func (m Mood) DisplayName() string {
	if !m.Valid() {
		return DefaultMood.DisplayName()
	}
	return strings.ToUpper(string(m[0])) + string(m[1:])
}

// SortOrder returns the mood's rank for sort-by-mood listings.
func (m Mood) SortOrder() int {
	for i, known := range AllMoods {
		if m == known {
			return i
		}
	}
	return DefaultMood.SortOrder()
}

// ParseMood validates a user-supplied mood name.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("invalid mood %q (valid: cool, love, sad, angry, happy)", s)
	}
	return m, nil
}

// Entry is the durable journal record. An entry may own an audio blob,
// referenced by AudioFileName and stored next to the record file.
type Entry struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Date                 time.Time `json:"date"`
	Text                 string    `json:"text"`
	AudioFileName        string    `json:"audioFileName,omitempty"`
	Mood                 Mood      `json:"mood"`
	Tags                 []string  `json:"tags"`
	AudioDurationSeconds *float64  `json:"audioDurationSeconds,omitempty"`
}

// NewEntry creates an in-memory entry with a fresh id and default mood.
func NewEntry(date time.Time, text string) Entry {
	return Entry{
		ID:   uuid.New(),
		Date: date,
		Text: text,
		Mood: DefaultMood,
		Tags: []string{},
	}
}

// UnmarshalJSON applies the documented decode fallbacks: missing title/text
// decode as empty, an unknown or absent mood falls back to the default, and
// absent tags decode as an empty set.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type alias Entry
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if !a.Mood.Valid() {
		a.Mood = DefaultMood
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	*e = Entry(a)
	return nil
}

// WordCount counts letter-delimited tokens in the entry body.
func (e Entry) WordCount() int {
	return len(strings.FieldsFunc(e.Text, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
}

// NormalizeTags lowercases tags, strips '#' characters, trims whitespace,
// drops empties, and deduplicates while preserving insertion order.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(t, "#", "")))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// WeeklyProgress reports how many entries were written in the week
// starting at WeekStart.
type WeeklyProgress struct {
	WeekStart    time.Time `json:"weekStart"`
	EntriesCount int       `json:"entriesCount"`
}
