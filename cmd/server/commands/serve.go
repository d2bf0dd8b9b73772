package commands

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/api"
	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, optionally with the in-process scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := api.New(app.TaskDeps(), app.Clock, app.Cfg.Server.CronToken, app.Logger)

			if app.Cfg.Scheduler.Internal {
				runner := startInternalScheduler(app)
				defer runner.Stop()
			}

			addr := app.Cfg.Addr()
			app.Logger.Info("Starting HTTP server", zap.String("addr", addr))
			if err := server.Router().Run(addr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
}

// startInternalScheduler fires the per-minute resolver in-process, for
// deployments without an external cron caller. The resolved task is
// the same one the trigger endpoint would run.
func startInternalScheduler(app *AppContext) *cron.Cron {
	deps := app.TaskDeps()
	runner := cron.New(cron.WithLocation(app.Clock.Location()))

	_, err := runner.AddFunc("* * * * *", func() {
		now := app.Clock.Now()
		task := schedule.Resolve(now)
		if task.Kind == schedule.TaskGeneral {
			return
		}
		if err := services.RunScheduledTask(app.Ctx, deps, task, now); err != nil {
			app.Logger.Error("Scheduled task failed",
				zap.String("task_type", task.Kind.String()),
				zap.Error(err))
		}
	})
	if err != nil {
		app.Logger.Fatal("Failed to register scheduler entry", zap.Error(err))
	}

	runner.Start()
	app.Logger.Info("Internal scheduler started")
	return runner
}
