package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
)

// RunTaskCmd creates the runTask command
func RunTaskCmd(app *AppContext) *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "runTask <task_type>",
		Short: "Run one scheduled task by name, outside the timetable",
		Long: `Runs a scheduled task immediately, regardless of the wall clock.
Task types: general, promemoria_turno, promemoria_presenze,
report_turni_scoperti, cambio_settimana. The reminder tasks take the
window index through --window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schedule.ParseKind(args[0])
			if err != nil {
				return err
			}

			task := schedule.Task{Kind: kind, Window: window}
			if err := services.RunScheduledTask(app.Ctx, app.TaskDeps(), task, app.Clock.Now()); err != nil {
				return err
			}

			fmt.Printf("Task %s completed\n", kind)
			return nil
		},
	}

	cmd.Flags().IntVarP(&window, "window", "w", 0, "Window or band index for the reminder tasks")
	return cmd
}
