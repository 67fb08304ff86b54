package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aidrug/internal/core"
)

var seedTable string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy the CSV dataset into the Postgres companies table",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedTable, "table", "", "target table (default: DATASET_TABLE)")
}

func runSeed(cmd *cobra.Command, argv []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("seed: DATABASE_URL is not set")
	}
	table := cfg.Dataset.Table
	if seedTable != "" {
		table = seedTable
	}

	ds, err := loadCSV(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Database.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("seed: connect: %w", err)
	}
	defer pool.Close()

	var n int64
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		n, err = core.SeedPostgres(ctx, tx, table, ds)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d companies into %s\n", n, table)
	return nil
}
