package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/gitwalk/config"
	"github.com/urfave/cli/v2"
)

// InitConfigCmd returns the init-config command, which writes the default
// configuration so it can be edited.
func InitConfigCmd() *cli.Command {
	return &cli.Command{
		Name:  "init-config",
		Usage: "Write a configuration file with default values",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Destination file; .yaml or .yml writes YAML",
				Value: ".gitwalk.yaml",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: initConfigAction,
	}
}

func initConfigAction(c *cli.Context) error {
	path := c.String("path")
	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}
