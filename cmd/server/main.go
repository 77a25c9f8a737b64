// Copyright 2026 Statlight
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/statlight/statlight-auth/internal/config"
	"github.com/statlight/statlight-auth/internal/database"
	"github.com/statlight/statlight-auth/internal/models"
	"github.com/statlight/statlight-auth/internal/repository"
	"github.com/statlight/statlight-auth/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "statlight-auth",
		Usage:  "Statlight authentication service",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:      "promote",
				Usage:     "Grant the admin role to a user",
				ArgsUsage: "<email>",
				Action:    promote,
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Action: migrateDown,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func promote(ctx context.Context, cmd *cli.Command) error {
	email := cmd.Args().First()
	if email == "" {
		return fmt.Errorf("usage: promote <email>")
	}

	db, err := database.Open(cmd.String("database-dsn"))
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.New(db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", email, err)
	}
	if user.IsAdmin() {
		fmt.Printf("%s is already an admin\n", email)
		return nil
	}

	if err := repo.SetUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
		return err
	}
	fmt.Printf("%s is now an admin\n", email)
	return nil
}

func migrateUp(_ context.Context, cmd *cli.Command) error {
	// Open applies all pending migrations.
	db, err := database.Open(cmd.String("database-dsn"))
	if err != nil {
		return err
	}
	return db.Close()
}

func migrateDown(_ context.Context, cmd *cli.Command) error {
	db, err := database.Open(cmd.String("database-dsn"))
	if err != nil {
		return err
	}
	defer db.Close()

	return database.MigrateDown(db.DB)
}
