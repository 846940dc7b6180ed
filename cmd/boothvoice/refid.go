package main

import (
	"fmt"

	"boothvoice/internal/utils"

	"github.com/urfave/cli/v2"
)

var refidCommand = &cli.Command{
	Name:  "refid",
	Usage: "Generate reference ids for manual testing",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "prefix",
			Aliases: []string{"p"},
			Usage:   "Reference family prefix",
			Value:   "GRV",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of ids to generate",
			Value:   1,
		},
	},
	Action: func(c *cli.Context) error {
		prefix := c.String("prefix")
		count := c.Int("count")
		for range count {
			fmt.Println(utils.RefID(prefix))
		}
		return nil
	},
}
