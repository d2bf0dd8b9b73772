package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/internal/config"
	"github.com/aulastudio-aps/gestionale/pkg/clients/telegramclient"
	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/rollover"
	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
	"github.com/aulastudio-aps/gestionale/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Store    *postgres.DB
	Telegram *telegramclient.Client
	Clock    *schedule.RomeClock
	Logger   *zap.Logger
	Ctx      context.Context
}

// TaskDeps assembles the dependency bundle consumed by the scheduled
// task dispatcher and the HTTP handlers.
func (app *AppContext) TaskDeps() services.TaskDeps {
	return services.TaskDeps{
		Store:  app.Store,
		Sender: app.Telegram,
		Logger: app.Logger,
		Rate:   notify.RatePolicy{Interval: app.Cfg.SendInterval()},
		Rollover: rollover.Options{
			StrictVerify:          app.Cfg.StrictVerify(),
			ArchiveExpiringShifts: app.Cfg.Rollover.ArchiveExpiringShifts,
		},
		OperatorChatID: app.Cfg.Telegram.OperatorChatID,
		ClosureRules:   app.Cfg.ClosureRules,
	}
}
