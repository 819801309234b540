package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/taskboard/internal/model"
)

// TokenRepo persists session token rows. A signed credential authenticates
// a request only while its row exists with active=1, so a credential whose
// insert failed is worthless even though its signature verifies.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts an active token row for the given owner and returns its id.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, key string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (token_key, user_id) VALUES (?,?)",
		key, userID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindActive looks a token up by owner and key jointly and only returns it
// while still active. ErrNotFound covers absent and revoked rows alike.
func (r *TokenRepo) FindActive(ctx context.Context, userID uint64, key string) (model.Token, error) {
	var t model.Token
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,token_key,user_id,active,created_at FROM tokens WHERE user_id=? AND token_key=? AND active=1 LIMIT 1",
		userID, key).
		Scan(&t.ID, &t.Key, &t.UserID, &t.Active, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Token{}, ErrNotFound
	}
	return t, err
}

// Revoke flips the active flag off for the row matching both key and id.
// ErrNotFound means no active row matched, which logout reports as a
// dedicated token-not-found condition.
func (r *TokenRepo) Revoke(ctx context.Context, key string, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tokens SET active=0 WHERE id=? AND token_key=? AND active=1",
		id, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
