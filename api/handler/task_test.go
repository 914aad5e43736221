package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasks/api/handler"
	"github.com/fastygo/tasks/api/transport"
	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/internal/router"
	"github.com/fastygo/tasks/pkg/httpcontext"
	"github.com/fastygo/tasks/repository"
	"github.com/fastygo/tasks/repository/memory"
	taskUC "github.com/fastygo/tasks/usecase/task"
)

var today = time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
	Error   string              `json:"error"`
}

type taskBody struct {
	ID            int64     `json:"id"`
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	DueDate       string    `json:"due_date"`
	Status        *string   `json:"status"`
	EstimatedTime *string   `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type api struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

// newAPI serves the routes over repo. A nil repo gets an in-memory store
// whose clock ticks one second per call.
func newAPI(t *testing.T, repo repository.TaskRepository) *api {
	t.Helper()
	if repo == nil {
		clock := today
		repo = memory.NewTaskRepository(memory.WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}))
	}
	h := apiHandler.NewTaskHandler(
		taskUC.New(repo, nil),
		transport.NewTaskSerializer(func() time.Time { return today }),
		httpcontext.NewAdapter(time.Second),
		nil,
	)
	r := router.New(router.Handlers{Task: h})
	return &api{t: t, handler: r.Handler}
}

func (a *api) do(method, path, body string) (int, envelope, *fasthttp.RequestCtx) {
	a.t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBodyString(body)
	}
	a.handler(ctx)

	var env envelope
	if len(ctx.Response.Body()) > 0 {
		require.NoError(a.t, json.Unmarshal(ctx.Response.Body(), &env), string(ctx.Response.Body()))
	}
	return ctx.Response.StatusCode(), env, ctx
}

func (a *api) create(body string) taskBody {
	a.t.Helper()
	status, env, _ := a.do(http.MethodPost, "/tasks/", body)
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	return decodeTask(a.t, env.Data)
}

func decodeTask(t *testing.T, raw json.RawMessage) taskBody {
	t.Helper()
	var task taskBody
	require.NoError(t, json.Unmarshal(raw, &task))
	return task
}

func TestCreateWithTitleOnly(t *testing.T) {
	a := newAPI(t, nil)

	status, env, ctx := a.do(http.MethodPost, "/tasks/", `{"title": "Write report"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Task created successfully", env.Message)
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	assert.NotEmpty(t, ctx.Response.Header.Peek(httpcontext.HeaderRequestID))

	task := decodeTask(t, env.Data)
	assert.Positive(t, task.ID)
	assert.Equal(t, "Write report", *task.Title)
	assert.Equal(t, "2026-10-15", task.DueDate)
	assert.Nil(t, task.Status)
	assert.Nil(t, task.EstimatedTime)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreateRejectsOversizedEstimate(t *testing.T) {
	a := newAPI(t, nil)

	status, env, _ := a.do(http.MethodPost, "/tasks/", `{"estimated_time": "123456.78"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Task creation failed", env.Message)
	assert.NotEmpty(t, env.Errors["estimated_time"])

	status, env, _ = a.do(http.MethodGet, "/tasks/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	a := newAPI(t, nil)

	status, env, _ := a.do(http.MethodPost, "/tasks/", `[{"title": "x"}]`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Errors[domain.NonFieldErrors])
}

func TestGetUnknownTask(t *testing.T) {
	a := newAPI(t, nil)

	status, _, ctx := a.do(http.MethodGet, "/tasks/999/", "")
	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"message": "Task not found"}`, string(ctx.Response.Body()))
}

func TestNonNumericIDIsNotFound(t *testing.T) {
	a := newAPI(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		status, env, _ := a.do(method, "/tasks/abc/", `{}`)
		assert.Equal(t, http.StatusNotFound, status, method)
		assert.Equal(t, "Task not found", env.Message, method)
	}
	status, _, _ := a.do(http.MethodGet, "/tasks/0/", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGetAndListAreRepeatable(t *testing.T) {
	a := newAPI(t, nil)
	created := a.create(`{"title": "one", "estimated_time": 1.5}`)
	a.create(`{"title": "two"}`)

	path := "/tasks/" + itoa(created.ID) + "/"
	_, first, _ := a.do(http.MethodGet, path, "")
	status, second, _ := a.do(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Task retrieved successfully", second.Message)
	assert.JSONEq(t, string(first.Data), string(second.Data))
	assert.Equal(t, "1.50", *decodeTask(t, second.Data).EstimatedTime)

	_, listA, _ := a.do(http.MethodGet, "/tasks/", "")
	status, listB, _ := a.do(http.MethodGet, "/tasks/", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Tasks retrieved successfully", listB.Message)
	assert.JSONEq(t, string(listA.Data), string(listB.Data))

	var tasks []taskBody
	require.NoError(t, json.Unmarshal(listB.Data, &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "one", *tasks[0].Title)
	assert.Equal(t, "two", *tasks[1].Title)
}

func TestListEmpty(t *testing.T) {
	a := newAPI(t, nil)

	status, env, _ := a.do(http.MethodGet, "/tasks/", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestUpdateEstimate(t *testing.T) {
	a := newAPI(t, nil)
	created := a.create(`{"title": "Write report", "status": "to do"}`)

	status, env, _ := a.do(http.MethodPut, "/tasks/"+itoa(created.ID)+"/", `{"estimated_time": "2.00"}`)
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, "Task updated successfully", env.Message)

	updated := decodeTask(t, env.Data)
	require.NotNil(t, updated.EstimatedTime)
	assert.Equal(t, "2.00", *updated.EstimatedTime)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.Equal(t, "Write report", *updated.Title)
	assert.Equal(t, "to do", *updated.Status)
}

func TestUpdateFullReplaceAndNull(t *testing.T) {
	a := newAPI(t, nil)
	created := a.create(`{"title": "a", "description": "b", "status": "to do", "estimated_time": "1"}`)
	path := "/tasks/" + itoa(created.ID) + "/"

	status, env, _ := a.do(http.MethodPut, path, `{"title": "x", "description": null, "due_date": "2027-02-01", "status": "done", "estimated_time": null}`)
	require.Equal(t, http.StatusAccepted, status)

	updated := decodeTask(t, env.Data)
	assert.Equal(t, "x", *updated.Title)
	assert.Nil(t, updated.Description)
	assert.Equal(t, "2027-02-01", updated.DueDate)
	assert.Equal(t, "done", *updated.Status)
	assert.Nil(t, updated.EstimatedTime)
}

func TestInvalidUpdateLeavesTaskUnchanged(t *testing.T) {
	a := newAPI(t, nil)
	created := a.create(`{"title": "keep", "estimated_time": "1.00"}`)
	path := "/tasks/" + itoa(created.ID) + "/"
	_, before, _ := a.do(http.MethodGet, path, "")

	status, env, _ := a.do(http.MethodPut, path, `{"title": "lost", "estimated_time": "abc"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Task update failed", env.Message)
	assert.Equal(t, []string{"A valid number is required."}, env.Errors["estimated_time"])

	_, after, _ := a.do(http.MethodGet, path, "")
	assert.JSONEq(t, string(before.Data), string(after.Data))
}

func TestUpdateUnknownTask(t *testing.T) {
	a := newAPI(t, nil)

	status, env, _ := a.do(http.MethodPut, "/tasks/5/", `{"estimated_time": "abc"}`)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", env.Message)
	assert.Empty(t, env.Errors)
}

func TestDeleteIsFinal(t *testing.T) {
	a := newAPI(t, nil)
	created := a.create(`{"title": "bye"}`)
	path := "/tasks/" + itoa(created.ID) + "/"

	status, _, ctx := a.do(http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message": "Task deleted successfully"}`, string(ctx.Response.Body()))

	status, env, _ := a.do(http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", env.Message)

	status, _, _ = a.do(http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, status)
}

// brokenStore fails every read, create and delete with err.
type brokenStore struct {
	repository.TaskRepository
	err error
}

func (b brokenStore) List(context.Context) ([]domain.Task, error) { return nil, b.err }
func (b brokenStore) Create(context.Context, domain.TaskFields) (*domain.Task, error) {
	return nil, b.err
}
func (b brokenStore) GetByID(context.Context, int64) (*domain.Task, error) { return nil, b.err }
func (b brokenStore) Delete(context.Context, int64) error                  { return b.err }

func TestStoreFailures(t *testing.T) {
	a := newAPI(t, brokenStore{err: errors.New("connection refused")})

	status, env, _ := a.do(http.MethodGet, "/tasks/", "")
	require.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "An error occurred while retrieving tasks", env.Message)
	assert.Equal(t, "connection refused", env.Error)

	status, env, _ = a.do(http.MethodPost, "/tasks/", `{"title": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Task creation failed", env.Message)

	status, _, _ = a.do(http.MethodGet, "/tasks/1/", "")
	assert.Equal(t, http.StatusInternalServerError, status)

	status, _, _ = a.do(http.MethodPut, "/tasks/1/", `{}`)
	assert.Equal(t, http.StatusInternalServerError, status)

	status, env, _ = a.do(http.MethodDelete, "/tasks/1/", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "An error occurred while deleting the task", env.Message)
}

func TestInvalidCreateNeverReachesStore(t *testing.T) {
	a := newAPI(t, brokenStore{err: errors.New("must not be called")})

	status, env, _ := a.do(http.MethodPost, "/tasks/", `{"due_date": "tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Errors, "due_date")
}

func TestRequestIDIsEchoed(t *testing.T) {
	a := newAPI(t, nil)
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(http.MethodGet)
	ctx.Request.SetRequestURI("/tasks/")
	ctx.Request.Header.Set(httpcontext.HeaderRequestID, "req-123")
	a.handler(ctx)

	assert.Equal(t, "req-123", string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID)))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
