package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/taskboard/internal/model"
)

const userColumns = "id,name,email,password,role,deleted,created_at,updated_at"

// UserRepo persists users. Passwords arrive already hashed; the repository
// never sees a plaintext.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. A duplicate email maps to
// ErrEmailExists via the unique-key violation.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	email = strings.TrimSpace(email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password, role) VALUES (?,?,?,?)",
		name, email, passwordHash, role)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by email, soft-deleted rows included; the
// caller decides what a deleted account means for its flow.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Deleted, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id. Soft-deleted rows are excluded unless
// includeDeleted is set (the admin patch flow needs them to restore
// accounts).
func (r *UserRepo) GetByID(ctx context.Context, id uint64, includeDeleted bool) (model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id=?"
	if !includeDeleted {
		q += " AND deleted=0"
	}
	var u model.User
	err := r.DB.QueryRowContext(ctx, q+" LIMIT 1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Deleted, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// List returns users filtered by the soft-delete flag. A nil filter keeps
// the default behavior of hiding deleted accounts.
func (r *UserRepo) List(ctx context.Context, deleted *bool) ([]model.User, error) {
	want := false
	if deleted != nil {
		want = *deleted
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE deleted=? ORDER BY id", want)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Deleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update writes the full mutable column set of an existing user. Callers
// merge patches into a fetched row first, so unspecified fields keep their
// stored values.
func (r *UserRepo) Update(ctx context.Context, u model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, password=?, role=?, deleted=? WHERE id=?",
		u.Name, u.Email, u.Password, u.Role, u.Deleted, u.ID)
	return err
}

// SoftDelete flags a live user as deleted. ErrNotFound covers both an
// unknown id and an already-deleted row.
func (r *UserRepo) SoftDelete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET deleted=1 WHERE id=? AND deleted=0", id)
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
