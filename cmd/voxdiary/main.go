package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/cli/backups"
	"github.com/voxdiary/voxdiary/internal/cli/entries"
	"github.com/voxdiary/voxdiary/internal/cli/record"
	"github.com/voxdiary/voxdiary/internal/cli/stats"
	"github.com/voxdiary/voxdiary/internal/cli/system"
	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/keyring"
	"github.com/voxdiary/voxdiary/internal/logger"
	"github.com/voxdiary/voxdiary/internal/storage"
	"github.com/voxdiary/voxdiary/internal/transcribe"
)

var CLI struct {
	Version      kong.VersionFlag
	DataDir      string `help:"Directory holding entries, index and audio blobs." default:"${data_dir}" type:"path" name:"data-dir"`
	Debug        bool   `help:"Enable debug logging."`
	SpeechEngine string `help:"External speech engine executable used for on-device transcription." default:"whisper-cli" name:"speech-engine"`
	Language     string `help:"Preferred transcription language (e.g. en-US)."`

	Init       system.InitCmd        `cmd:"" help:"Initialize the entry store."`
	Add        entries.EntryAddCmd   `cmd:"" help:"Add a typed entry."`
	Record     record.RecordCmd      `cmd:"" help:"Import an audio recording, transcribe it and save an entry."`
	Transcribe record.TranscribeCmd  `cmd:"" help:"Transcribe an audio file and print the text."`
	List       entries.EntryListCmd  `cmd:"" help:"List entries, most recent first."`
	Day        entries.DayCmd        `cmd:"" help:"Show entries for a calendar day."`
	Edit       entries.EntryEditCmd  `cmd:"" help:"Edit an existing entry."`
	Delete     entries.EntryDeleteCmd `cmd:"" help:"Delete an entry and its audio."`
	Stats      stats.StatsCmd        `cmd:"" help:"Show journal statistics."`
	Doctor     system.DoctorCmd      `cmd:"" help:"Run health checks and diagnostics."`
	Config     system.ConfigCmd      `cmd:"" help:"Manage the transcription API key."`
	Backup     struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage entry backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Voice and text journaling companion"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"data_dir": constants.DefaultDataDir,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: CLI.DataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
	}

	store := storage.NewFileStore(CLI.DataDir)

	var preferred []string
	if CLI.Language != "" {
		preferred = append(preferred, CLI.Language)
	}
	pipeline := transcribe.NewPipeline([]transcribe.Provider{
		transcribe.NewWhisperProvider(keyring.APIKey),
		transcribe.NewSpeechProvider(&transcribe.ExecRecognizer{Command: CLI.SpeechEngine}, preferred...),
	})

	appCtx := &cli.Context{
		Store:        store,
		Pipeline:     pipeline,
		DataDir:      CLI.DataDir,
		SpeechEngine: CLI.SpeechEngine,
	}

	// Verify the store before running anything but init.
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
