package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/taskboard/internal/model"
)

const taskColumns = "id,title,description,user_id,deleted,created_at,updated_at"

// TaskRepo persists tasks. Every read and write is scoped by the owning
// user id as well as the task id, so a foreign task behaves exactly like a
// missing one.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

// Create inserts a task for the owner and returns the stored row.
func (r *TaskRepo) Create(ctx context.Context, userID uint64, title, description string) (model.Task, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (title, description, user_id) VALUES (?,?,?)",
		title, description, userID)
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return r.FindByID(ctx, userID, uint64(id))
}

// ListByUser returns the owner's live tasks; soft-deleted rows stay hidden.
func (r *TaskRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id=? AND deleted=0 ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.UserID, &t.Deleted, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// FindByID fetches one live task scoped to its owner.
func (r *TaskRepo) FindByID(ctx context.Context, userID, taskID uint64) (model.Task, error) {
	var t model.Task
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=? AND user_id=? AND deleted=0 LIMIT 1",
		taskID, userID).
		Scan(&t.ID, &t.Title, &t.Description, &t.UserID, &t.Deleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// Update writes title and description of an owned live task. Affected-row
// counts are not inspected: MySQL reports zero for a no-op change, and the
// handler has already resolved the scoped row before calling this.
func (r *TaskRepo) Update(ctx context.Context, userID, taskID uint64, title, description string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET title=?, description=? WHERE id=? AND user_id=? AND deleted=0",
		title, description, taskID, userID)
	return err
}

// SoftDelete flags an owned live task as deleted.
func (r *TaskRepo) SoftDelete(ctx context.Context, userID, taskID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET deleted=1 WHERE id=? AND user_id=? AND deleted=0",
		taskID, userID)
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
