// Package command contains the CLI command constructors.
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/config"
	"github.com/ciclored/ciclored-api/internal/utils"
)

type runtimeKey struct{}

// runtime is what PersistentPreRunE prepares for every sub-command.
type runtime struct {
	cfg config.Config
	log *zap.Logger
}

// RootCommand instantiates the root command, with all sub-commands bound.
func RootCommand() *cobra.Command {
	var envFiles []string
	cmd := &cobra.Command{
		Use:          "ciclored [command] [flags]",
		Short:        "The ciclored cycling community API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded",
				zap.String("env", cfg.Env),
				zap.String("db_driver", cfg.DBDriver),
				zap.String("port", cfg.Port),
			)
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, &runtime{cfg: cfg, log: logger}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, err := fromContext(cmd.Context()); err == nil {
				_ = rt.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringSliceVarP(&envFiles, "env-file", "e", nil,
		"additional .env files to load (default .env)")

	cmd.AddCommand(
		serveCommand(),
		migrateCommand(),
	)
	return cmd
}

func fromContext(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey{}).(*runtime)
	if !ok {
		return nil, errors.New("command runtime not initialized")
	}
	return rt, nil
}
