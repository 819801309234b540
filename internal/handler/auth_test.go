package handler

import (
	"database/sql"
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/config"
	"github.com/iliyamo/taskboard/internal/middleware"
	"github.com/iliyamo/taskboard/internal/repository"
	"github.com/iliyamo/taskboard/internal/utils"
)

var testCfg = config.Config{Env: "test", Port: "0", JWTSecret: "handler-test-secret", BcryptCost: bcrypt.MinCost}

var mysqlDuplicate = mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

// bcryptOf matches an INSERT/UPDATE argument that is a bcrypt hash of the
// expected plaintext, and is therefore never the plaintext itself.
type bcryptOf struct{ plain string }

func (m bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || s == m.plain {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(m.plain)) == nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	sessions := auth.NewService(testCfg.JWTSecret, testCfg.BcryptCost, users, tokens)
	return NewAuthHandler(testCfg, users, sessions), mock, db
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func storedUserRow(t *testing.T, id uint64, name, email, plain, role string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "deleted", "created_at", "updated_at"}).
		AddRow(id, name, email, hash, role, false, now, now)
}

func TestSignup_StoresHashNeverPlaintext(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Alice", "a@x.com", bcryptOf{plain: "secret1"}, "USER").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	require.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"email":"a@x.com","role":"USER"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Alice", "a@x.com", sqlmock.AnyArg(), "USER").
		WillReturnError(&mysqlDuplicate)

	c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/signup",
		`{"name":"Alice","email":"a@x.com","password":"secret1"}`)
	err := h.Signup(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, apperr.CodeUserAlreadyExists, appErr.Code)
}

func TestSignup_ValidatesBeforeStorage(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()
	// No expectations: an invalid body must never reach the database.

	cases := []string{
		`{"name":"Al","email":"a@x.com","password":"secret1"}`, // name too short
		`{"name":"Alice","email":"not-an-email","password":"secret1"}`,
		`{"name":"Alice","email":"a@x.com","password":"short"}`,
		`{}`,
	}
	for _, body := range cases {
		c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/signup", body)
		err := h.Signup(c)
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, apperr.CodeUnprocessable, appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownEmail(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/login",
		`{"email":"nobody@x.com","password":"secret1"}`)
	err := h.Login(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, apperr.CodeUserNotFound, appErr.Code)
}

// Wrong password yields bad-password, never not-found, and no session
// credential of any kind.
func TestLogin_WrongPassword(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("a@x.com").
		WillReturnRows(storedUserRow(t, 1, "Alice", "a@x.com", "secret1", "USER"))

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)
	err := h.Login(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, apperr.CodeIncorrectPassword, appErr.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogin_Success_SetsSessionCookie(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WithArgs("a@x.com").
		WillReturnRows(storedUserRow(t, 1, "Alice", "a@x.com", "secret1", "USER"))
	mock.ExpectExec("INSERT INTO tokens").
		WithArgs(sqlmock.AnyArg(), uint64(1)).
		WillReturnResult(sqlmock.NewResult(3, 1))

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":1,"message":"Login success"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.SessionCookie, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure) // non-prod runtime mode
	assert.Equal(t, 3600, cookie.MaxAge)

	claims, err := utils.ParseSessionToken(testCfg.JWTSecret, cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogout_TokenNotFound(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectExec("UPDATE tokens SET active=0").
		WithArgs(uint64(3), "signed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/logout", "")
	auth.SetIdentity(c, auth.Identity{UserID: 1, Role: "USER", TokenID: 3, Key: "signed"})
	err := h.Logout(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, apperr.CodeTokenNotFound, appErr.Code)
}

func TestLogout_Success_ClearsCookie(t *testing.T) {
	h, mock, db := newAuthHandler(t)
	defer db.Close()

	mock.ExpectExec("UPDATE tokens SET active=0").
		WithArgs(uint64(3), "signed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/logout", "")
	auth.SetIdentity(c, auth.Identity{UserID: 1, Role: "USER", TokenID: 3, Key: "signed"})
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"userId":1,"message":"Logout success"}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestLogout_FailsClosedWithoutIdentity(t *testing.T) {
	h, _, db := newAuthHandler(t)
	defer db.Close()

	c, _ := jsonContext(newTestEcho(), http.MethodPost, "/api/auth/logout", "")
	err := h.Logout(c)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}
