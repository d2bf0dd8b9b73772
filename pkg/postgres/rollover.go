package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// BeginRollover opens the single transaction the weekly rotation runs
// in. The returned handle is the only writer allowed to delete and
// recreate assignment and template rows across week boundaries.
func (d *DB) BeginRollover(ctx context.Context) (db.RolloverTx, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rollover transaction: %w", err)
	}
	return &rolloverTx{tx: tx}, nil
}

type rolloverTx struct {
	tx pgx.Tx
}

func (r *rolloverTx) ListSlotTemplates(ctx context.Context, table db.TemplateTable) ([]db.SlotTemplate, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT id, giorno, inizio, fine, note
		FROM `+templateTableName(table)+`
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot templates: %w", err)
	}
	defer rows.Close()

	var templates []db.SlotTemplate
	for rows.Next() {
		var tpl db.SlotTemplate
		if err := rows.Scan(&tpl.ID, &tpl.Weekday, &tpl.Start, &tpl.End, &tpl.Note); err != nil {
			return nil, fmt.Errorf("failed to scan slot template: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating slot templates: %w", err)
	}
	return templates, nil
}

func (r *rolloverTx) ListShiftsBetween(ctx context.Context, from, to string) ([]db.Shift, error) {
	rows, err := r.tx.Query(ctx, `
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

func (r *rolloverTx) UnlinkShiftTemplates(ctx context.Context) error {
	if _, err := r.tx.Exec(ctx, `UPDATE turni SET fascia_id = NULL`); err != nil {
		return fmt.Errorf("failed to unlink shift templates: %w", err)
	}
	return nil
}

func (r *rolloverTx) ListAttendance(ctx context.Context) ([]db.Attendance, error) {
	rows, err := r.tx.Query(ctx, `
		SELECT data, fascia, numero, note FROM presenze ORDER BY data, fascia
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

func (r *rolloverTx) InsertAttendanceArchive(ctx context.Context, archive []db.AttendanceArchive) error {
	for _, rec := range archive {
		_, err := r.tx.Exec(ctx, `
			INSERT INTO presenze_storico (data, giorno, fascia, numero, note)
			VALUES ($1, $2, $3, $4, $5)
		`, rec.Date, rec.Weekday, rec.Band, rec.Count, rec.Note)
		if err != nil {
			return fmt.Errorf("failed to insert attendance archive row for %s: %w", rec.Date, err)
		}
	}
	return nil
}

func (r *rolloverTx) DeleteAllAttendance(ctx context.Context) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM presenze`); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func (r *rolloverTx) InsertShiftArchive(ctx context.Context, shifts []db.Shift) error {
	for _, shift := range shifts {
		_, err := r.tx.Exec(ctx, `
			INSERT INTO turni_storico (data, inizio, fine, user_id, note, straordinario)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, shift.Date, shift.Start, shift.End, shift.UserID, shift.Note, shift.ClosedOverride)
		if err != nil {
			return fmt.Errorf("failed to archive shift %s %s: %w", shift.Date, shift.Start, err)
		}
	}
	return nil
}

func (r *rolloverTx) DeleteShiftsBetween(ctx context.Context, from, to string) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM turni WHERE data BETWEEN $1 AND $2`, from, to); err != nil {
		return fmt.Errorf("failed to delete shifts between %s and %s: %w", from, to, err)
	}
	return nil
}

func (r *rolloverTx) DeleteAllSlotTemplates(ctx context.Context, table db.TemplateTable) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM `+templateTableName(table)); err != nil {
		return fmt.Errorf("failed to delete slot templates: %w", err)
	}
	return nil
}

func (r *rolloverTx) InsertSlotTemplates(ctx context.Context, table db.TemplateTable, templates []db.SlotTemplate) error {
	for _, tpl := range templates {
		_, err := r.tx.Exec(ctx, `
			INSERT INTO `+templateTableName(table)+` (giorno, inizio, fine, note)
			VALUES ($1, $2, $3, $4)
		`, tpl.Weekday, tpl.Start, tpl.End, tpl.Note)
		if err != nil {
			return fmt.Errorf("failed to insert slot template for %s: %w", tpl.Weekday, err)
		}
	}
	return nil
}

func (r *rolloverTx) InsertShifts(ctx context.Context, shifts []db.Shift) error {
	for _, shift := range shifts {
		_, err := r.tx.Exec(ctx, `
			INSERT INTO turni (`+shiftColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, shift.Date, shift.Start, shift.End, shift.UserID, shift.Note, shift.ClosedOverride, shift.TemplateID)
		if err != nil {
			return fmt.Errorf("failed to insert shift %s %s: %w", shift.Date, shift.Start, err)
		}
	}
	return nil
}

func (r *rolloverTx) CountSlotTemplates(ctx context.Context, table db.TemplateTable) (int, error) {
	var count int
	err := r.tx.QueryRow(ctx, `SELECT COUNT(*) FROM `+templateTableName(table)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count slot templates: %w", err)
	}
	return count, nil
}

func (r *rolloverTx) CountShiftsBetween(ctx context.Context, from, to string) (int, error) {
	var count int
	err := r.tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM turni WHERE data BETWEEN $1 AND $2
	`, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count shifts: %w", err)
	}
	return count, nil
}

func (r *rolloverTx) Commit(ctx context.Context) error {
	if err := r.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func (r *rolloverTx) Rollback(ctx context.Context) error {
	if err := r.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to rollback: %w", err)
	}
	return nil
}
