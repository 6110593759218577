// Command seed creates the schema and loads the sample users, tags, posts,
// images and comments.
package main

import (
	"context"
	"fmt"
	"os"

	"backend-antisocial/internal/config"
	"backend-antisocial/internal/db"
	"backend-antisocial/internal/logging"
	"backend-antisocial/internal/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newSeedCmd(config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}

func newSeedCmd(loadConfig func() config.Config) *cobra.Command {
	var opts seed.Options
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create the schema and load sample data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			pool, err := db.ConnectPostgres(cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sum, err := seed.Run(ctx, pool, seed.Sample, opts, logger)
			if err != nil {
				logger.Error("seed failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d tags, %d posts, %d images, %d comments\n",
				sum.Users, sum.Tags, sum.Posts, sum.Images, sum.Comments)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "truncate every table before loading")
	cmd.Flags().BoolVar(&opts.SchemaOnly, "schema-only", false, "only create the tables")
	return cmd
}
