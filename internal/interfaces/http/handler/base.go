package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/batchledger/backend/internal/domain/shared"
	"github.com/batchledger/backend/internal/infrastructure/logger"
	"github.com/batchledger/backend/internal/interfaces/http/dto"
	"github.com/batchledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// BaseHandler holds the response helpers shared by every handler
type BaseHandler struct{}

// Success writes data in the success envelope with status 200
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error writes the error envelope tagged with the request id
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest writes a 400
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// HandleError writes the response for a report failure. Errors without a
// domain code are logged and reported with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	status, code, message, known := classifyError(err)
	if !known {
		logger.GetGinLogger(c).Error("Unhandled request error", zap.Error(err))
	}
	h.Error(c, status, code, message)
}

// classifyError maps err to a status, API code and client-safe message.
// known is false for errors that fall through to 500.
func classifyError(err error) (status int, code, message string, known bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusRequestTimeout, dto.ErrCodeRequestCancelled,
			"Request was cancelled before the report completed", true
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = dto.NormalizeErrorCode(domainErr.Code)
		return dto.GetHTTPStatus(code), code, domainErr.Message, true
	}

	return http.StatusInternalServerError, dto.ErrCodeInternal, unexpectedErrorMessage, false
}
