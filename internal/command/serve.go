package command

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ciclored/ciclored-api/internal/config"
	"github.com/ciclored/ciclored-api/internal/database"
	"github.com/ciclored/ciclored-api/internal/handler"
	"github.com/ciclored/ciclored-api/internal/queue"
	"github.com/ciclored/ciclored-api/internal/repository"
	"github.com/ciclored/ciclored-api/internal/router"
	"github.com/ciclored/ciclored-api/internal/service"
	"github.com/ciclored/ciclored-api/internal/utils"
)

// ShutdownTimeout bounds how long in-flight requests may drain.
const ShutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the ciclored HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			rt, err := fromContext(cmd.Context())
			if err != nil {
				return err
			}
			cfg, log := rt.cfg, rt.log

			db, dialect, err := database.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { runErr = errors.Join(runErr, db.Close()) }()

			if migrate {
				if _, err := database.Migrate(cmd.Context(), db, dialect); err != nil {
					return err
				}
			}

			rdb := config.NewRedisClient(cmd.Context(), cfg.Redis)
			if rdb == nil {
				log.Warn("redis unavailable, rate limiting disabled", zap.String("addr", cfg.Redis.Addr))
			} else {
				defer func() { _ = rdb.Close() }()
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			var events handler.EventPublisher = service.NopPublisher{}
			if cfg.AMQPURL != "" {
				pub := service.NewAMQPPublisher(cfg.AMQPURL, log)
				defer func() { _ = pub.Close() }()
				events = pub

				audit := utils.NewRotatingWriter(cfg.AuditLog)
				defer func() { _ = audit.Close() }()
				consumer := queue.NewConsumer(cfg.AMQPURL, audit, log)
				grp.Go(func() error { return consumer.Run(ctx) })
			} else {
				log.Info("AMQP_URL not set, incident events disabled")
			}

			e := router.New(router.Deps{
				Cfg:       cfg,
				DB:        db,
				Users:     repository.NewUserRepo(db, cfg.BcryptCost),
				Routes:    repository.NewRouteRepo(db),
				Incidents: repository.NewIncidentRepo(db),
				Profiles:  repository.NewProfileRepo(db, dialect),
				Events:    events,
				Redis:     rdb,
				Log:       log,
			})

			grp.Go(func() error {
				log.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
				if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			grp.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
				defer cancel()
				log.Info("shutting down")
				return e.Shutdown(shutdownCtx)
			})
			return grp.Wait()
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	return cmd
}
