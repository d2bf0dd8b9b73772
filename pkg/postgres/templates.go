package postgres

import (
	"context"
	"fmt"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// ListSlotTemplates retrieves the configured openings from one of the
// two fasce orarie tables, in stable (weekday of insertion, start)
// order so reconciler tie-breaks are deterministic.
func (d *DB) ListSlotTemplates(ctx context.Context, table db.TemplateTable) ([]db.SlotTemplate, error) {
	rows, err := d.pool.Query(ctx, `
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
