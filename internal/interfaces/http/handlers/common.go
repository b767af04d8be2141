// Package handlers implements the gin handlers of the detection API.
package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-engine/internal/interfaces/http/middleware"
	"github.com/turtacn/hbond-engine/pkg/errors"
	"github.com/turtacn/hbond-engine/pkg/types/common"
)

// writeJSON wraps data in a success envelope.
func writeJSON[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// writeError writes a failure envelope.
func writeError(c *gin.Context, status int, code errors.ErrorCode, message, detail string) {
	resp := common.NewErrorResponse(string(code), message, detail)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

// writeAppError maps err to its HTTP status.  Errors without a caller-facing
// code are masked as internal errors.
func writeAppError(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		writeError(c, http.StatusInternalServerError, errors.ErrCodeInternal, "internal server error", "")
		return
	}
	status := errors.HTTPStatusForCode(appErr.Code)
	if status >= http.StatusInternalServerError {
		writeError(c, status, appErr.Code, errors.ErrorCodeMessage[appErr.Code], "")
		return
	}
	writeError(c, status, appErr.Code, appErr.Message, appErr.Detail)
}

// writeBindError reports a malformed or oversized request body.
func writeBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeError(c, http.StatusRequestEntityTooLarge, errors.ErrCodeBadRequest, "request body too large", "")
		return
	}
	writeError(c, http.StatusBadRequest, errors.ErrCodeBadRequest, "invalid request body", err.Error())
}

//Personal.AI order the ending
