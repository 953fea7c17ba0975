package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/keyring"
	"github.com/voxdiary/voxdiary/internal/storage"
)

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running health checks...")
	failures := 0

	// Data directory
	if info, err := os.Stat(ctx.DataDir); err != nil {
		fmt.Printf("✗ Data directory missing: %s\n", ctx.DataDir)
		failures++
	} else if !info.IsDir() {
		fmt.Printf("✗ Data directory is not a directory: %s\n", ctx.DataDir)
		failures++
	} else if err := checkWritable(ctx.DataDir); err != nil {
		fmt.Printf("✗ Data directory not writable: %v\n", err)
		failures++
	} else {
		fmt.Printf("✓ Data directory: %s\n", ctx.DataDir)
	}

	// Index
	index := storage.NewRecordIndex(filepath.Join(ctx.DataDir, constants.IndexFileName))
	if ids, err := index.Read(); err != nil {
		fmt.Printf("✗ Entry index unreadable: %v\n", err)
		failures++
	} else {
		fmt.Printf("✓ Entry index: %d entries\n", len(ids))
	}

	// Credential
	if _, err := keyring.APIKey(); err == nil {
		fmt.Println("✓ Cloud transcription: API key configured")
	} else {
		fmt.Println("- Cloud transcription: no API key (on-device fallback only)")
	}

	// Keyring
	if keyring.IsAvailable() {
		fmt.Println("✓ OS keyring available")
	} else {
		fmt.Println("- OS keyring unavailable (use the environment variable instead)")
	}

	// On-device engine
	if path, err := exec.LookPath(ctx.SpeechEngine); err == nil {
		fmt.Printf("✓ Speech engine: %s\n", path)
	} else {
		fmt.Printf("- Speech engine %q not found in PATH\n", ctx.SpeechEngine)
	}

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Println("All checks passed")
	return nil
}

func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
