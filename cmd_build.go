package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/bracketlut/bracketlut/lut"
)

func newCmd_Build() *cli.Command {
	var backendFlag string
	var outPath string
	return &cli.Command{
		Name:        "build",
		Description: "Scan a JSON file and build a bracket-pair lookup table artifact.",
		ArgsUsage:   "<json-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "backend",
				Usage:       "storage backend: naive | phf | phf-double",
				Value:       "phf-double",
				Destination: &backendFlag,
			},
			&cli.StringFlag{
				Name:        "out",
				Usage:       "output path for the serialized artifact (extension selects format: .json or .cbor)",
				Destination: &outPath,
			},
		},
		Action: func(c *cli.Context) error {
			jsonPath := c.Args().Get(0)
			if jsonPath == "" {
				return cli.Exit(fmt.Errorf("missing <json-path> argument"), 2)
			}
			backend, err := lut.ParseBackend(backendFlag)
			if err != nil {
				return cli.Exit(err, 2)
			}
			data, err := os.ReadFile(jsonPath)
			if err != nil {
				return cli.Exit(fmt.Errorf("failed to read %s: %w", jsonPath, err), 2)
			}

			startedAt := time.Now()
			klog.Infof("building %s table for %s", backend, jsonPath)
			table, err := lut.BuildFromInput(data, backend)
			if err != nil {
				return cli.Exit(err, 1)
			}
			klog.Infof("built %d entries in %s", table.Overview().EntryCount, time.Since(startedAt))

			if outPath != "" {
				if err := table.Store(outPath); err != nil {
					return cli.Exit(err, 2)
				}
				klog.Infof("wrote artifact to %s", outPath)
			}
			return nil
		},
	}
}
