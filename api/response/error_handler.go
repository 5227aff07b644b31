package response

import (
	"net/http"
	"runtime"

	"movieshop/pkg/errors"
	"movieshop/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var httpStatusMap = map[errors.ErrorCode]int{
	errors.CodeInternal:    http.StatusInternalServerError,
	errors.CodeBadRequest:  http.StatusBadRequest,
	errors.CodeNotFound:    http.StatusNotFound,
	errors.CodeConflict:    http.StatusConflict,
	errors.CodeValidation:  http.StatusBadRequest,
	errors.CodeGateway:     http.StatusBadGateway,
	errors.CodePersistence: http.StatusInternalServerError,

	errors.CodeMovieNotFound:      http.StatusNotFound,
	errors.CodeCartNotFound:       http.StatusNotFound,
	errors.CodeCartItemExists:     http.StatusConflict,
	errors.CodeCartEmpty:          http.StatusConflict,
	errors.CodeAlreadyPurchased:   http.StatusConflict,
	errors.CodeOrderNotFound:      http.StatusNotFound,
	errors.CodeOrderNotCancelable: http.StatusConflict,
	errors.CodeOrderNotPayable:    http.StatusConflict,
	errors.CodePaymentNotFound:    http.StatusNotFound,
	errors.CodePaymentCanceled:    http.StatusConflict,
}

func mapErrorCodeToHTTPStatus(code errors.ErrorCode) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// GetRequestID exposes the request id to controllers.
func GetRequestID(c *gin.Context) string {
	return getRequestID(c)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}

// HandleError handles framework-level errors such as parameter binding.
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := getRequestID(c)

	logger.Error(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError maps an application error to its HTTP status, logs the full
// error chain, and answers with the code and the user-visible message only.
func HandleAppError(c *gin.Context, err error) {
	requestID := getRequestID(c)
	appErr := errors.AsAppError(err)
	httpStatus := mapErrorCodeToHTTPStatus(appErr.Code)

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
		zap.Strings("stack", captureStack(3)),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}
	logger.Error(appErr.Message, fields...)

	userMessage := appErr.Message
	if appErr.Code == errors.CodeInternal || appErr.Code == errors.CodePersistence {
		userMessage = "internal server error"
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}
