package system

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/voxdiary/voxdiary/internal/cli"
	"github.com/voxdiary/voxdiary/internal/constants"
	"github.com/voxdiary/voxdiary/internal/keyring"
)

type ConfigCmd struct {
	SetKey   ConfigSetKeyCmd   `cmd:"" help:"Store the transcription API key in the OS keyring." name:"set-key"`
	ClearKey ConfigClearKeyCmd `cmd:"" help:"Remove the transcription API key from the OS keyring." name:"clear-key"`
	Status   ConfigStatusCmd   `cmd:"" help:"Show credential status."`
}

type ConfigSetKeyCmd struct {
	Key string `arg:"" optional:"" help:"API key; read from stdin when omitted."`
}

func (c *ConfigSetKeyCmd) Run(ctx *cli.Context) error {
	key := c.Key
	if key == "" {
		fmt.Print("API key: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(line)
	}
	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Println("✓ API key stored in OS keyring")
	return nil
}

type ConfigClearKeyCmd struct{}

func (c *ConfigClearKeyCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		return err
	}
	fmt.Println("✓ API key removed from OS keyring")
	return nil
}

type ConfigStatusCmd struct{}

func (c *ConfigStatusCmd) Run(ctx *cli.Context) error {
	if os.Getenv(constants.APIKeyEnvVar) != "" {
		fmt.Printf("API key: set via %s\n", constants.APIKeyEnvVar)
		return nil
	}
	if _, err := keyring.APIKey(); err == nil {
		fmt.Println("API key: stored in OS keyring")
		return nil
	}
	fmt.Printf("API key: not configured (cloud transcription disabled, on-device fallback only)\n")
	return nil
}
