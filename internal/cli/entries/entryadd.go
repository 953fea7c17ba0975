package entries

import (
	"fmt"
	"time"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/models"
	"github.com/voxdiary/voxdiary/internal/utils"
)

type EntryAddCmd struct {
	Text  string   `arg:"" help:"Entry body text."`
	Title string   `help:"Optional display title."`
	Mood  string   `help:"Mood tag (cool, love, sad, angry, happy)." default:"happy"`
	Tags  []string `help:"Comma-separated tags." sep:","`
	Date  string   `help:"Entry date (YYYY-MM-DD), defaults to now."`
}

func (c *EntryAddCmd) Run(ctx *cli.Context) error {
	mood, err := models.ParseMood(c.Mood)
	if err != nil {
		return err
	}

	date := time.Now()
	if c.Date != "" {
		d, err := utils.ParseDate(c.Date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
		date = d
	}

	e := models.NewEntry(date, c.Text)
	e.Title = c.Title
	e.Mood = mood
	e.Tags = models.NormalizeTags(c.Tags)

	if err := ctx.Store.Save(e); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	fmt.Printf("✓ Entry saved: %s\n", e.ID)
	return nil
}
