package postgres

import (
	"context"
	"fmt"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// InsertCronLog appends one audit row. cron_logs is append-only: there
// are no update or delete statements for it anywhere in the codebase.
func (d *DB) InsertCronLog(ctx context.Context, log *db.CronLog) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO cron_logs (id, task_type, executed_at, status, message)
		VALUES ($1, $2, $3, $4, $5)
	`, log.ID, log.TaskType, log.Timestamp, log.Status, log.Message)
	if err != nil {
		return fmt.Errorf("failed to insert cron log: %w", err)
	}
	return nil
}
