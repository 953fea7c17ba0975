package entries

import (
	"fmt"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/constants"
)

type DayCmd struct {
	Date    string `arg:"" optional:"" help:"Day to show (YYYY-MM-DD), defaults to today."`
	ShowIDs bool   `help:"Show entry IDs." name:"show-ids"`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	day, err := cli.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	entries, err := ctx.Store.LoadAllOn(day)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}
	if len(entries) == 0 {
		fmt.Printf("No entries on %s\n", day.Format(constants.DateFormat))
		return nil
	}

	fmt.Printf("Entries on %s:\n", day.Format(constants.DateFormat))
	for _, e := range entries {
		fmt.Println(cli.FormatEntryLine(e, c.ShowIDs))
		if e.Text != "" {
			fmt.Printf("      %s\n", e.Text)
		}
	}
	return nil
}
