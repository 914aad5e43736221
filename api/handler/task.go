package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasks/api/transport"
	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/pkg/httpcontext"
	taskUC "github.com/fastygo/tasks/usecase/task"
)

const (
	msgListed     = "Tasks retrieved successfully"
	msgListFailed = "An error occurred while retrieving tasks"
	msgRetrieved  = "Task retrieved successfully"
	msgGetFailed  = "An error occurred while retrieving the task"
	msgCreated    = "Task created successfully"
	msgCreateFail = "Task creation failed"
	msgUpdated    = "Task updated successfully"
	msgUpdateFail = "Task update failed"
	msgDeleted    = "Task deleted successfully"
	msgDeleteFail = "An error occurred while deleting the task"
)

// TaskHandler serves the task collection and item routes.
type TaskHandler struct {
	baseHandler
	uc         *taskUC.UseCase
	serializer *transport.TaskSerializer
}

func NewTaskHandler(uc *taskUC.UseCase, serializer *transport.TaskSerializer, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	if serializer == nil {
		serializer = transport.NewTaskSerializer(nil)
	}
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		serializer:  serializer,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /tasks/ [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgListFailed)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(msgListed, h.serializer.RenderList(tasks)))
}

// @Summary Get task
// @Tags tasks
// @Router /tasks/{id}/ [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := taskID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTaskNotFound, msgGetFailed)
		return
	}

	task, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgGetFailed)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(msgRetrieved, h.serializer.Render(*task)))
}

// @Summary Create task
// @Tags tasks
// @Router /tasks/ [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fields, err := h.serializer.ParseCreate(ctx.PostBody())
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgCreateFail)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, fields)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgCreateFail)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewSuccess(msgCreated, h.serializer.Render(*created)))
}

// @Summary Update task
// @Tags tasks
// @Router /tasks/{id}/ [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := taskID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTaskNotFound, msgUpdateFail)
		return
	}

	existing, err := h.uc.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgUpdateFail)
		return
	}

	fields, err := h.serializer.ParseUpdate(ctx.PostBody(), *existing)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgUpdateFail)
		return
	}

	updated, err := h.uc.UpdateTask(stdCtx, id, fields)
	if err != nil {
		h.respondError(ctx, stdCtx, err, msgUpdateFail)
		return
	}
	h.respondJSON(ctx, http.StatusAccepted, transport.NewSuccess(msgUpdated, h.serializer.Render(*updated)))
}

// @Summary Delete task
// @Tags tasks
// @Router /tasks/{id}/ [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := taskID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTaskNotFound, msgDeleteFail)
		return
	}

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err, msgDeleteFail)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewMessage(msgDeleted))
}

// taskID reads the {id} path parameter. Anything but a positive integer
// cannot name a task.
func taskID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
