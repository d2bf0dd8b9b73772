package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/cmd/server/commands"
	"github.com/aulastudio-aps/gestionale/internal/config"
	"github.com/aulastudio-aps/gestionale/pkg/clients/telegramclient"
	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/postgres"
	"github.com/aulastudio-aps/gestionale/pkg/utils/logging"
)

var (
	debug bool
	app   *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gestionale",
		Short: "Aula studio backend - shifts, attendance and notifications",
		Long:  `The backend for the aula studio: weekly shift scheduling, attendance tracking, the Sunday week rollover and Telegram notifications.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Store != nil {
					app.Store.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug console logging")

	rootCmd.AddCommand(commands.ServeCmd(appRef()))
	rootCmd.AddCommand(commands.MigrateCmd(appRef()))
	rootCmd.AddCommand(commands.RunTaskCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef hands commands a stable pointer that initApp fills in later.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, clients, and database
func initApp() error {
	appRef()
	app.Ctx = context.Background()

	// A local .env is optional; real deployments export the vars.
	godotenv.Load()

	var err error
	app.Logger, err = logging.New("gestionale", debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application")

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Clock, err = schedule.NewRomeClock()
	if err != nil {
		return fmt.Errorf("failed to initialize clock: %w", err)
	}

	app.Logger.Info("Connecting to database")
	app.Store, err = postgres.New(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Debug("Database connection established")

	app.Telegram = telegramclient.New(app.Cfg.Telegram.Token)

	app.Logger.Info("Application initialized", zap.String("addr", app.Cfg.Addr()))
	return nil
}
