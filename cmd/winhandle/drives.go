//go:build windows

package main

import (
	"fmt"

	cli "github.com/urfave/cli/v2"

	"github.com/teamdman/winhandle/internal/volume"
)

var drivesCommand = &cli.Command{
	Name:      "drives",
	Usage:     "list the available drives matching a pattern",
	ArgsUsage: "[PATTERN]",
	Action: func(c *cli.Context) error {
		if c.NArg() > 1 {
			return cli.ShowSubcommandHelp(c)
		}
		letters, err := resolve(c.Args().First())
		if err != nil {
			return err
		}
		for _, l := range letters {
			fmt.Fprintf(c.App.Writer, "%c\t%s\n", l, volume.Path(l))
		}
		return nil
	},
}

// resolve parses s (default "*") and resolves it against the present drives.
func resolve(s string) ([]rune, error) {
	if s == "" {
		s = string(volume.All)
	}
	p, err := volume.Parse(s)
	if err != nil {
		return nil, err
	}
	return volume.Resolve(p)
}
