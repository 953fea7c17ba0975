package record

import (
	"context"
	"fmt"

	"github.com/voxdiary/voxdiary/internal/cli"
)

type TranscribeCmd struct {
	Audio string `arg:"" type:"existingfile" help:"Audio file to transcribe."`
}

func (c *TranscribeCmd) Run(ctx *cli.Context) error {
	text, err := ctx.Pipeline.Transcribe(context.Background(), c.Audio)
	if err != nil {
		return fmt.Errorf("%s", TranscriptionFailureMessage(err))
	}
	fmt.Println(text)
	return nil
}
