package main

import (
	"context"
	"fmt"

	"boothvoice/internal/db"
	"boothvoice/internal/seed"
	"boothvoice/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with a demo electoral roll",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		voterRepo := store.NewVoterRepository(pool)

		logrus.Info("Seeding demo roll...")
		if err := seed.SeedVoters(ctx, voterRepo); err != nil {
			return fmt.Errorf("failed to seed voters: %w", err)
		}

		logrus.Info("Demo roll seeded successfully")

		return nil
	},
}
