package entries

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voxdiary/voxdiary/internal/cli"
)

type EntryDeleteCmd struct {
	ID string `arg:"" help:"ID of the entry to delete."`
}

func (c *EntryDeleteCmd) Run(ctx *cli.Context) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return fmt.Errorf("invalid entry ID %q", c.ID)
	}
	if err := ctx.Store.Delete(id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	fmt.Printf("✓ Entry deleted: %s\n", id)
	return nil
}
