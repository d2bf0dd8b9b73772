package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// ListAttendance retrieves every operational headcount row.
func (d *DB) ListAttendance(ctx context.Context) ([]db.Attendance, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT data, fascia, numero, note
		FROM presenze
		ORDER BY data, fascia
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []db.Attendance
	for rows.Next() {
		var rec db.Attendance
		var date time.Time
		if err := rows.Scan(&date, &rec.Band, &rec.Count, &rec.Note); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.Date = date.Format("2006-01-02")
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance: %w", err)
	}
	return records, nil
}

// UpsertAttendance creates or replaces the headcount for one
// (date, band) pair, keeping the at-most-one-row invariant.
func (d *DB) UpsertAttendance(ctx context.Context, record *db.Attendance) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO presenze (data, fascia, numero, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (data, fascia) DO UPDATE SET
			numero = EXCLUDED.numero,
			note = EXCLUDED.note
	`, record.Date, record.Band, record.Count, record.Note)
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return nil
}
