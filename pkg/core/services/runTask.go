package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/rollover"
	"github.com/aulastudio-aps/gestionale/pkg/core/schedule"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// TaskDeps bundles everything a scheduled task may need. One value is
// built at startup and shared by every trigger invocation.
type TaskDeps struct {
	Store          db.Store
	Sender         notify.Sender
	Logger         *zap.Logger
	Rate           notify.RatePolicy
	Rollover       rollover.Options
	OperatorChatID int64
	ClosureRules   []string
}

// RunScheduledTask dispatches one resolved task and records the
// invocation in cron_logs. The audit row is written for every
// invocation, the heartbeat included, and its insert failure is logged
// but never overrides the task's own outcome.
func RunScheduledTask(ctx context.Context, deps TaskDeps, task schedule.Task, now time.Time) error {
	deps.Logger.Info("Running scheduled task",
		zap.String("task_type", task.Kind.String()),
		zap.Int("window", task.Window))

	var err error
	switch task.Kind {
	case schedule.TaskGeneral:
		// Heartbeat: the audit row is the whole point.
	case schedule.TaskShiftReminder:
		err = SendShiftReminder(ctx, deps.Store, deps.Sender, deps.Logger, now, task.Window)
	case schedule.TaskAttendanceReminder:
		err = SendAttendanceReminder(ctx, deps.Store, deps.Sender, deps.Logger, task.Window, deps.Rate)
	case schedule.TaskEmptyShiftsReport:
		err = SendEmptyShiftsReport(ctx, deps.Store, deps.Sender, deps.Logger, now, deps.ClosureRules, deps.Rate)
	case schedule.TaskWeeklyRollover:
		_, err = RunWeeklyRollover(ctx, deps.Store, deps.Sender, deps.Logger, now, deps.Rollover, deps.Rate, deps.OperatorChatID)
	}

	logTaskRun(ctx, deps, task, now, err)
	return err
}

func logTaskRun(ctx context.Context, deps TaskDeps, task schedule.Task, now time.Time, runErr error) {
	row := &db.CronLog{
		ID:        uuid.NewString(),
		TaskType:  task.Kind.String(),
		Timestamp: now.Format(time.RFC3339),
		Status:    "success",
	}
	if runErr != nil {
		row.Status = "error"
		row.Message = runErr.Error()
	}
	if err := deps.Store.InsertCronLog(ctx, row); err != nil {
		deps.Logger.Error("Failed to write cron log row",
			zap.String("task_type", row.TaskType),
			zap.Error(err))
	}
}
