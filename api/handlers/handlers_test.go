package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aidin1998/usertodos/api/handlers"
	"github.com/Aidin1998/usertodos/api/responses"
	"github.com/Aidin1998/usertodos/common/dbutil"
	"github.com/Aidin1998/usertodos/internal/config"
	"github.com/Aidin1998/usertodos/internal/repository"
	"github.com/Aidin1998/usertodos/pkg/models"
	"github.com/Aidin1998/usertodos/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	gw     *testutil.MockGateway
	router *gin.Engine
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T, cfg config.APIConfig) *fixture {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)
	gw := new(testutil.MockGateway)
	t.Cleanup(func() { gw.AssertExpectations(t) })

	router := gin.New()
	handlers.NewHandler(gw, zap.New(core), cfg).RegisterRoutes(router)
	return &fixture{gw: gw, router: router, logs: logs}
}

func (f *fixture) do(req *http.Request) (*httptest.ResponseRecorder, responses.Envelope) {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env responses.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func strPtr(s string) *string { return &s }

var errConnRefused = dbutil.WrapError(stderrors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

func TestGreeting(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	w, _ := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello Next level developers", w.Body.String())
}

func TestDatabaseErrorIsGeneric(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything, "SELECT * FROM users", mock.Anything).
		Return(int64(0), errConnRefused).Once()

	w, env := f.do(httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "internal database error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection refused")

	entries := f.logs.FilterMessage("Request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, dbutil.CodeUnknown, entries[0].ContextMap()["db_code"])
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}

func TestDatabaseErrorExposedWhenConfigured(t *testing.T) {
	f := newFixture(t, config.APIConfig{ExposeDBErrors: true})
	f.gw.On("Query", mock.Anything, mock.Anything, "SELECT * FROM todos", mock.Anything).
		Return(int64(0), errConnRefused).Once()

	w, env := f.do(httptest.NewRequest(http.MethodGet, "/todos", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "dial tcp 127.0.0.1:5432: connect: connection refused", env.Message)
}

func TestGetUserBindsRawID(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.AnythingOfType("*models.User"), "SELECT * FROM users WHERE id = ?", []any{"12"}).
		Return(int64(0), nil).Once()

	w, env := f.do(httptest.NewRequest(http.MethodGet, "/users/12", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "user not found", env.Message)
	assert.Nil(t, env.Data)
}

func TestCreateUserStoresNameAndEmailOnly(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything,
		"INSERT INTO users (name,email) VALUES (?,?) RETURNING *",
		[]any{strPtr("Ada"), strPtr("ada@example.com")}).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.User) = models.User{ID: 1, Name: "Ada", Email: "ada@example.com"}
		}).
		Return(int64(1), nil).Once()

	w, env := f.do(jsonRequest(http.MethodPost, "/users",
		`{"name":"Ada","email":"ada@example.com","age":36,"phone":"555","address":"London"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "data inserted", env.Message)
	data := env.Data.(map[string]any)
	assert.Equal(t, "ada@example.com", data["email"])
	assert.Nil(t, data["age"])
}

func TestCreateUserWithoutBodyPassesNulls(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything,
		"INSERT INTO users (name,email) VALUES (?,?) RETURNING *",
		[]any{(*string)(nil), (*string)(nil)}).
		Return(int64(0), dbutil.WrapError(stderrors.New("NOT NULL constraint failed: users.name"))).Once()

	w, env := f.do(jsonRequest(http.MethodPost, "/users", `not json`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal database error", env.Message)
	assert.Equal(t, 1, f.logs.FilterMessage("Request body not fully decoded").Len())
}

func TestUpdateUserNotFound(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything,
		"UPDATE users SET name = ?, email = ? WHERE id = ? RETURNING *",
		[]any{strPtr("x"), strPtr("x@example.com"), "9"}).
		Return(int64(0), nil).Once()

	w, env := f.do(jsonRequest(http.MethodPut, "/users/9", `{"name":"x","email":"x@example.com"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", env.Message)
}

func TestDeleteUserNotFound(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything, "DELETE FROM users WHERE id = ? RETURNING *", []any{"9"}).
		Return(int64(0), nil).Once()

	w, env := f.do(httptest.NewRequest(http.MethodDelete, "/users/9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
}

func TestListTodosEmptyIsNotFound(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything, "SELECT * FROM todos", mock.Anything).
		Return(int64(0), nil).Once()

	w, env := f.do(httptest.NewRequest(http.MethodGet, "/todos", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "no todos found", env.Message)
}

func TestCreateTodoStoresUserAndTitleOnly(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	owner := int64(3)
	f.gw.On("Query", mock.Anything, mock.Anything,
		"INSERT INTO todos (user_id,title) VALUES (?,?) RETURNING *",
		[]any{repository.ScalarOf("3"), strPtr("write notes")}).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.Todo) = models.Todo{ID: 5, UserID: &owner, Title: "write notes"}
		}).
		Return(int64(1), nil).Once()

	w, env := f.do(jsonRequest(http.MethodPost, "/todos",
		`{"user_id":3,"title":"write notes","description":"dropped","completed":true}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "write notes", env.Data.(map[string]any)["title"])
}

func TestCreateTodoPassesQuotedUserIDThrough(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything,
		"INSERT INTO todos (user_id,title) VALUES (?,?) RETURNING *",
		[]any{repository.ScalarOf("3"), strPtr("quoted")}).
		Return(int64(1), nil).Once()

	w, _ := f.do(jsonRequest(http.MethodPost, "/todos", `{"user_id":"3","title":"quoted"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Zero(t, f.logs.FilterMessage("Request body not fully decoded").Len())
}

func TestDeleteTodoNotFoundAnswersOK(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything, "DELETE FROM todos WHERE id = ? RETURNING *", []any{"77"}).
		Return(int64(0), nil).Once()

	w, env := f.do(httptest.NewRequest(http.MethodDelete, "/todos/77", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "todo not found", env.Message)
}

func TestUpdateTodo(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything,
		"UPDATE todos SET title = ?, description = ? WHERE id = ? RETURNING *",
		[]any{strPtr("new"), strPtr("details"), "4"}).
		Run(func(args mock.Arguments) {
			*args.Get(1).(*models.Todo) = models.Todo{ID: 4, Title: "new", Description: strPtr("details")}
		}).
		Return(int64(1), nil).Once()

	w, env := f.do(jsonRequest(http.MethodPut, "/todos/4", `{"title":"new","description":"details"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "details", env.Data.(map[string]any)["description"])
}

func TestUpdateTodoNotFound(t *testing.T) {
	f := newFixture(t, config.APIConfig{})
	f.gw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), nil).Once()

	w, env := f.do(jsonRequest(http.MethodPut, "/todos/4", `{"title":"new"}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "todo not found", env.Message)
}

// Known defect kept behind API_LEGACY_TODO_UPDATE: a successful update
// writes nothing and holds the request until its context ends.
func TestLegacyTodoUpdateNeverResponds(t *testing.T) {
	f := newFixture(t, config.APIConfig{LegacyTodoUpdate: true})
	f.gw.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(1), nil).Once()

	const wait = 50 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	req := jsonRequest(http.MethodPut, "/todos/4", `{"title":"new"}`).WithContext(ctx)

	start := time.Now()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.GreaterOrEqual(t, time.Since(start), wait)
	assert.Empty(t, w.Body.String(), "legacy todo update must not write an envelope")
}
