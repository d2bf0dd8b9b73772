package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// GetUser retrieves one directory entry.
func (d *DB) GetUser(ctx context.Context, id int64) (*db.User, error) {
	var user db.User
	err := d.pool.QueryRow(ctx, `
		SELECT id, nome, cognome, telefono, chat_id, livello
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.Surname, &user.Phone, &user.ChatID, &user.Level)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return &user, nil
}

// VerifySession resolves a bearer credential to the identity behind
// it, distinguishing unknown from expired tokens.
func (d *DB) VerifySession(ctx context.Context, token string) (*db.Session, error) {
	var session db.Session
	var expired bool
	err := d.pool.QueryRow(ctx, `
		SELECT u.id, u.livello, s.expires_at < NOW()
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
	`, token).Scan(&session.UserID, &session.Level, &expired)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify session: %w", err)
	}
	if expired {
		return nil, db.ErrSessionExpired
	}
	return &session, nil
}
