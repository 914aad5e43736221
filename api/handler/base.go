package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasks/api/transport"
	"github.com/fastygo/tasks/domain"
	"github.com/fastygo/tasks/pkg/httpcontext"
	"github.com/fastygo/tasks/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode response failed", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body = []byte(`{"message":"internal error"}`)
	}
	ctx.SetBody(body)
}

// respondError converts err into exactly one response. failMessage labels
// validation and unexpected failures; not-found answers carry the error text.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error, failMessage string) {
	switch domain.CodeOf(err) {
	case domain.ErrCodeNotFound:
		h.respondJSON(ctx, http.StatusNotFound, transport.NewMessage(notFoundMessage(err)))
	case domain.ErrCodeInvalid:
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationFailure(failMessage, validationFields(err)))
	default:
		logger.WithRequestID(stdCtx, h.logger).Error(failMessage,
			zap.ByteString("method", ctx.Method()),
			zap.ByteString("path", ctx.Path()),
			zap.Error(err))
		h.respondJSON(ctx, http.StatusInternalServerError, transport.NewFailure(failMessage, err))
	}
}

func notFoundMessage(err error) string {
	var dErr *domain.Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	return domain.ErrTaskNotFound.Message
}

func validationFields(err error) map[string][]string {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) && !vErr.Empty() {
		return vErr.Fields
	}
	return map[string][]string{domain.NonFieldErrors: {err.Error()}}
}
