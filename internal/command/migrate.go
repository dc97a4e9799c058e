package command

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/database"
)

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "manage the database schema",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(migrateUpCommand(), migrateStatusCommand())
	return cmd
}

func migrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			db, dialect, err := database.Open(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			defer func() { runErr = errors.Join(runErr, db.Close()) }()

			results, err := database.Migrate(cmd.Context(), db, dialect)
			if err != nil {
				return err
			}
			for _, r := range results {
				rt.log.Info("migration applied",
					zap.Int64("version", r.Source.Version),
					zap.Duration("took", r.Duration))
			}
			if len(results) == 0 {
				rt.log.Info("schema up to date")
			}
			return nil
		},
	}
}

func migrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "list migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			db, dialect, err := database.Open(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			defer func() { runErr = errors.Join(runErr, db.Close()) }()

			statuses, err := database.MigrationStatus(cmd.Context(), db, dialect)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range statuses {
				applied := "pending"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format(time.RFC3339)
				}
				if _, err := fmt.Fprintf(out, "%05d  %-8s  %s\n", s.Source.Version, s.State, applied); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
