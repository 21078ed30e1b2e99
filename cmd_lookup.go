package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/bracketlut/bracketlut/lut"
)

func newCmd_Lookup() *cli.Command {
	return &cli.Command{
		Name:        "lookup",
		Description: "Look up the close offset for an open offset in a serialized artifact.",
		ArgsUsage:   "<artifact-path> <open-offset>",
		Action: func(c *cli.Context) error {
			artifactPath := c.Args().Get(0)
			offsetArg := c.Args().Get(1)
			if artifactPath == "" || offsetArg == "" {
				return cli.Exit(fmt.Errorf("usage: lookup <artifact-path> <open-offset>"), 2)
			}
			open, err := strconv.ParseUint(offsetArg, 10, 64)
			if err != nil {
				return cli.Exit(fmt.Errorf("invalid open-offset %q: %w", offsetArg, err), 2)
			}

			table, err := lut.Load(artifactPath)
			if err != nil {
				return cli.Exit(err, 2)
			}
			close, ok := table.Lookup(open)
			if !ok {
				fmt.Fprintf(os.Stderr, "no entry for offset %d\n", open)
				return cli.Exit("", 1)
			}
			fmt.Println(close)
			return nil
		},
	}
}
