package cli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"

	"github.com/pcurve/pctl/pkg/auth"
)

var (
	apiKeyFlag = &urfave.StringFlag{
		Name:     "key",
		Usage:    "Semantic Scholar API key",
		Required: true,
	}

	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Manage the optional catalog API key",
		Subcommands: []*urfave.Command{
			{
				Name:   "set",
				Usage:  "Store the API key in the OS keychain",
				Action: cmdAuthSet,
				Flags: []urfave.Flag{
					apiKeyFlag,
				},
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored API key",
				Action: cmdAuthClear,
			},
		},
	}
)

func cmdAuthSet(c *urfave.Context) error {
	cfg := getConfig(c)
	if err := auth.SaveAPIKey(cfg.HomeDir, c.String(apiKeyFlag.Name)); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	fmt.Println("API key saved")
	return nil
}

func cmdAuthClear(c *urfave.Context) error {
	cfg := getConfig(c)
	if err := auth.DeleteAPIKey(cfg.HomeDir); err != nil {
		return fmt.Errorf("clearing API key: %w", err)
	}
	fmt.Println("API key cleared")
	return nil
}
