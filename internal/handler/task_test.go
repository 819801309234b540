package handler

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/repository"
)

func newTaskHandler(t *testing.T) (*TaskHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewTaskHandler(repository.NewTaskRepo(db)), mock, db
}

func storedTaskRow(id, userID uint64, title, description string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "title", "description", "user_id", "deleted", "created_at", "updated_at"}).
		AddRow(id, title, description, userID, false, now, now)
}

func asUser(c echo.Context, userID uint64) {
	auth.SetIdentity(c, auth.Identity{UserID: userID, Role: "USER", TokenID: 1, Key: "k"})
}

func TestTaskCreate(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs("groceries", "milk and eggs", uint64(2)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT .+ FROM tasks WHERE id=").
		WithArgs(uint64(5), uint64(2)).
		WillReturnRows(storedTaskRow(5, 2, "groceries", "milk and eggs"))

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/tasks",
		`{"title":"groceries","description":"milk and eggs"}`)
	asUser(c, 2)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"groceries"`)
}

func TestTaskCreate_TitleRequired(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/tasks", `{"description":"no title"}`)
	asUser(c, 2)

	err := h.Create(c)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Another user's task is reported as not found, never as forbidden, so the
// response does not confirm the task exists.
func TestTaskFind_ForeignTaskIsNotFound(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM tasks WHERE id=").
		WithArgs(uint64(5), uint64(99)).
		WillReturnError(sql.ErrNoRows)

	c, _ := jsonContext(newTestEcho(), http.MethodGet, "/api/tasks/5", "")
	c.SetPath("/api/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 99)

	err := h.Find(c)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, apperr.CodeTaskNotFound, appErr.Code)
}

func TestTaskList_EmptyForFreshUser(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM tasks WHERE user_id=").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "user_id", "deleted", "created_at", "updated_at"}))

	c, rec := jsonContext(newTestEcho(), http.MethodGet, "/api/tasks", "")
	asUser(c, 2)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskUpdate_MergesPartialPatch(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM tasks WHERE id=").
		WithArgs(uint64(5), uint64(2)).
		WillReturnRows(storedTaskRow(5, 2, "groceries", "milk and eggs"))
	// Only the title changes; the stored description is preserved.
	mock.ExpectExec("UPDATE tasks SET").
		WithArgs("errands", "milk and eggs", uint64(5), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonContext(newTestEcho(), http.MethodPatch, "/api/tasks/5", `{"title":"errands"}`)
	c.SetPath("/api/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 2)

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "errands")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskDelete_ScopedNotFound(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	mock.ExpectExec("UPDATE tasks SET deleted=1").
		WithArgs(uint64(5), uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, _ := jsonContext(newTestEcho(), http.MethodDelete, "/api/tasks/5", "")
	c.SetPath("/api/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues("5")
	asUser(c, 99)

	err := h.Delete(c)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, apperr.CodeTaskNotFound, appErr.Code)
}

func TestTaskHandlers_FailClosedWithoutIdentity(t *testing.T) {
	h, mock, db := newTaskHandler(t)
	defer db.Close()

	c, _ := jsonContext(newTestEcho(), http.MethodGet, "/api/tasks", "")
	err := h.List(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
