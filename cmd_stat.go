package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bracketlut/bracketlut/lut"
)

func newCmd_Stat() *cli.Command {
	var fromJSON bool
	var backendFlag string
	return &cli.Command{
		Name:        "stat",
		Description: "Print diagnostics (entry count, distance stats, estimated sizes) for a JSON file or a serialized artifact.",
		ArgsUsage:   "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "from-json",
				Usage:       "treat <path> as a raw JSON file instead of a serialized artifact",
				Destination: &fromJSON,
			},
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "backend to build when --from-json is set: naive | phf | phf-double",
				Value:       "phf-double",
				Destination: &backendFlag,
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().Get(0)
			if path == "" {
				return cli.Exit(fmt.Errorf("missing <path> argument"), 2)
			}

			var table *lut.Table
			if fromJSON {
				backend, err := lut.ParseBackend(backendFlag)
				if err != nil {
					return cli.Exit(err, 2)
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return cli.Exit(err, 2)
				}
				table, err = lut.BuildFromInput(data, backend)
				if err != nil {
					return cli.Exit(err, 1)
				}
			} else {
				var err error
				table, err = lut.Load(path)
				if err != nil {
					return cli.Exit(err, 2)
				}
			}

			fmt.Print(table.Overview().String())
			return nil
		},
	}
}
