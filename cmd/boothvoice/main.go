package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "boothvoice",
		Usage: "WhatsApp voter engagement service",
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			refidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
