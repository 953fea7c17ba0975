package system

import (
	"fmt"

	"github.com/voxdiary/voxdiary/internal/cli"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	fmt.Printf("✓ Storage initialized at %s\n", ctx.Store.Dir())
	return nil
}
