package entries

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/models"
)

type EntryEditCmd struct {
	ID    string    `arg:"" help:"ID of the entry to edit."`
	Text  *string   `help:"Replace the entry body." optional:""`
	Title *string   `help:"Replace the title." optional:""`
	Mood  *string   `help:"Replace the mood." optional:""`
	Tags  *[]string `help:"Replace the tags (comma-separated)." sep:"," optional:""`
}

func (c *EntryEditCmd) Run(ctx *cli.Context) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid entry ID %q", c.ID)
	}
	if c.Text == nil && c.Title == nil && c.Mood == nil && c.Tags == nil {
		return fmt.Errorf("nothing to change (use --text, --title, --mood or --tags)")
	}

	all, err := ctx.Store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}
	var entry *models.Entry
	for i := range all {
		if all[i].ID == id {
			entry = &all[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("entry not found: %s", id)
	}

	if c.Text != nil {
		entry.Text = *c.Text
	}
	if c.Title != nil {
		entry.Title = *c.Title
	}
	if c.Mood != nil {
		mood, err := models.ParseMood(*c.Mood)
		if err != nil {
			return err
		}
		entry.Mood = mood
	}
	if c.Tags != nil {
		entry.Tags = models.NormalizeTags(*c.Tags)
	}

	if err := ctx.Store.Save(*entry); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	fmt.Printf("✓ Entry updated: %s\n", entry.ID)
	return nil
}
