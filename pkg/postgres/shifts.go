package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

const shiftColumns = `data, inizio, fine, user_id, note, straordinario, fascia_id`

// ListShiftsBetween retrieves all assignment rows with from <= date <= to.
func (d *DB) ListShiftsBetween(ctx context.Context, from, to string) ([]db.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM turni
		WHERE data BETWEEN $1 AND $2
		ORDER BY data, inizio
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []db.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

// UpsertShift creates or replaces the assignment row for the shift's
// (date, start, end) key.
func (d *DB) UpsertShift(ctx context.Context, shift *db.Shift) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO turni (`+shiftColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (data, inizio, fine) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			note = EXCLUDED.note,
			straordinario = EXCLUDED.straordinario,
			fascia_id = EXCLUDED.fascia_id
	`, shift.Date, shift.Start, shift.End, shift.UserID, shift.Note, shift.ClosedOverride, shift.TemplateID)
	if err != nil {
		return fmt.Errorf("failed to upsert shift: %w", err)
	}
	return nil
}

// DeleteShift removes one assignment row.
func (d *DB) DeleteShift(ctx context.Context, date, start, end string) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM turni WHERE data = $1 AND inizio = $2 AND fine = $3
	`, date, start, end)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (db.Shift, error) {
	var shift db.Shift
	var date time.Time
	if err := row.Scan(&date, &shift.Start, &shift.End, &shift.UserID, &shift.Note, &shift.ClosedOverride, &shift.TemplateID); err != nil {
		return db.Shift{}, fmt.Errorf("failed to scan shift: %w", err)
	}
	shift.Date = date.Format("2006-01-02")
	return shift, nil
}
