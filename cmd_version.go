package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func newCmd_Version() *cli.Command {
	return &cli.Command{
		Name:        "version",
		Description: "Print the bracketlut version.",
		Action: func(c *cli.Context) error {
			v := gitCommitSHA
			if v == "" {
				v = "dev"
			}
			fmt.Println("bracketlut " + v)
			return nil
		},
	}
}
