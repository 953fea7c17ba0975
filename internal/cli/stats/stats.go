package stats

import (
	"fmt"

	"github.com/voxdiary/voxdiary/internal/aggregate"
	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/models"
)

type StatsCmd struct {
	WeekOf   string `help:"Compute the weekly count for the week containing this date (YYYY-MM-DD)." name:"week-of"`
	NoRepair bool   `help:"Skip backfilling missing audio durations." name:"no-repair"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	ref, err := cli.ResolveDate(c.WeekOf)
	if err != nil {
		return err
	}

	svc := aggregate.NewService(ctx.Store, aggregate.WithRepair(!c.NoRepair))
	stats, entries, err := svc.Refresh(ref)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	fmt.Println("Journal stats:")
	fmt.Printf("  Entries:     %d\n", stats.EntryCount)
	fmt.Printf("  Words:       %d\n", stats.TotalWordCount)
	fmt.Printf("  Audio:       %s\n", cli.FormatDuration(stats.TotalAudioDurationSeconds))
	fmt.Printf("  This week:   %d\n", stats.WeeklyCount)

	moods := make(map[models.Mood]int)
	for _, e := range entries {
		moods[e.Mood]++
	}
	if len(moods) > 0 {
		fmt.Println("  Moods:")
		for _, m := range models.AllMoods {
			if count := moods[m]; count > 0 {
				fmt.Printf("    %-8s %d\n", m.DisplayName(), count)
			}
		}
	}
	return nil
}
