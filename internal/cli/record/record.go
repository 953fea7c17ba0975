package record

import (
	"context"
	"fmt"
	"time"

	"github.com/voxdiary/voxdiary/internal/audio"
	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/models"
	"github.com/voxdiary/voxdiary/internal/transcribe"
)

type RecordCmd struct {
	Audio        string   `arg:"" type:"existingfile" help:"Finished audio recording to import."`
	Title        string   `help:"Optional display title."`
	Mood         string   `help:"Mood tag (cool, love, sad, angry, happy)." default:"happy"`
	Tags         []string `help:"Comma-separated tags." sep:","`
	Text         string   `help:"Use this text instead of transcribing."`
	NoTranscribe bool     `help:"Skip transcription, save the audio only." name:"no-transcribe"`
	Keep         bool     `help:"Copy the recording instead of moving it."`
}

func (c *RecordCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	e := models.NewEntry(time.Now(), c.Text)
	e.Title = c.Title
	e.Mood = mood
	e.Tags = models.NormalizeTags(c.Tags)
	e.AudioFileName = e.ID.String() + constants.AudioFileExt

	dest := ctx.Store.AudioPathForEntry(e.ID)
	if c.Keep {
		err = audio.CopyBlob(c.Audio, dest)
	} else {
		err = audio.ImportBlob(c.Audio, dest)
	}
	if err != nil {
		return fmt.Errorf("failed to import recording: %w", err)
	}

	if d, err := audio.Duration(dest); err == nil && d > 0 {
		e.AudioDurationSeconds = &d
	}

	if !c.NoTranscribe && c.Text == "" {
		text, err := ctx.Pipeline.Transcribe(context.Background(), dest)
		if err != nil {
			// The blob is already safely imported; save the entry without
			// text so the user can retry or type it in later.
			fmt.Println(TranscriptionFailureMessage(err))
		} else {
			e.Text = text
		}
	}

	if err := ctx.Store.Save(e); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	fmt.Printf("✓ Entry saved: %s\n", e.ID)
	if e.AudioDurationSeconds != nil {
		fmt.Printf("  Audio: %s (%s)\n", e.AudioFileName, cli.FormatDuration(*e.AudioDurationSeconds))
	}
	if e.Text != "" {
		fmt.Printf("  Text: %s\n", cli.Preview(e.Text, 80))
	}
	return nil
}

// TranscriptionFailureMessage maps error kinds to actionable user messaging.
func TranscriptionFailureMessage(err error) string {
	switch transcribe.KindOf(err) {
	case transcribe.KindMissingCredential:
		return fmt.Sprintf("⚠ Transcription skipped: no API key configured. Run '%s config set-key' or set %s.",
			constants.AppName, constants.APIKeyEnvVar)
	case transcribe.KindNotAuthorized:
		return "⚠ Transcription failed: on-device speech engine not available and cloud transcription failed."
	case transcribe.KindUnavailable:
		return "⚠ Transcription failed: no speech recognizer usable for your locale."
	default:
		return fmt.Sprintf("⚠ Transcription failed: %v", err)
	}
}
