package entries

import (
	"fmt"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/models"
)

type EntryListCmd struct {
	On      string `help:"Only show entries on this day (YYYY-MM-DD)."`
	ShowIDs bool   `help:"Show entry IDs." name:"show-ids"`
}

func (c *EntryListCmd) Run(ctx *cli.Context) error {
	var entries []models.Entry
	if c.On != "" {
		day, err := cli.ResolveDate(c.On)
		if err != nil {
			return err
		}
		entries, err = ctx.Store.LoadAllOn(day)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
	} else {
		var err error
		entries, err = ctx.Store.LoadAll()
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
	}

	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	fmt.Println("Entries:")
	for _, e := range entries {
		fmt.Println(cli.FormatEntryLine(e, c.ShowIDs))
	}
	return nil
}
