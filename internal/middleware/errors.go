// Package middleware holds the gin middleware chain: request logging, rate limiting,
// request validation and the error responder that turns every raised error into
// the JSON error body.
package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	dom "TodoAPI/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	statusError           = "error"
	messageValidation     = "Validation error"
	messageDuplicateField = "Duplicate field value entered"
	messageInternal       = "Something went wrong"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Errors  []dom.Violation `json:"errors,omitempty"`
	Detail  string          `json:"detail,omitempty"`
	Stack   string          `json:"stack,omitempty"`
}

type stackTracer interface {
	Stack() string
}

// Respond maps err to a status code and body. It is the only place error statuses
// are decided. development adds the stack to non-validation errors that carry one,
// and the error text to unclassified ones.
func Respond(err error, development bool) (int, ErrorResponse) {
	switch dom.KindOf(err) {
	case dom.KindValidation:
		var ve *dom.ValidationError
		errors.As(err, &ve)
		return http.StatusUnprocessableEntity, ErrorResponse{
			Status:  statusError,
			Message: messageValidation,
			Errors:  ve.Violations,
		}

	case dom.KindNotFound:
		var nf *dom.NotFoundError
		errors.As(err, &nf)
		return nf.StatusCode(), withStack(ErrorResponse{Status: statusError, Message: nf.Error()}, nf, development)

	case dom.KindApp:
		var ae *dom.AppError
		errors.As(err, &ae)
		status := ae.StatusCode()
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		return status, withStack(ErrorResponse{Status: statusError, Message: ae.Message}, ae, development)

	case dom.KindConflict:
		return http.StatusConflict, ErrorResponse{Status: statusError, Message: messageDuplicateField}

	default:
		body := ErrorResponse{Status: statusError, Message: messageInternal}
		if development && err != nil {
			body.Detail = err.Error()
			var st stackTracer
			if errors.As(err, &st) {
				body.Stack = st.Stack()
			}
		}
		return http.StatusInternalServerError, body
	}
}

func withStack(body ErrorResponse, st stackTracer, development bool) ErrorResponse {
	if development {
		body.Stack = st.Stack()
	}
	return body
}

// ErrorHandler writes the response for the last error raised with c.Error.
// Unclassified errors are always logged.
func ErrorHandler(logger *log.Logger, development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if dom.KindOf(err) == dom.KindUnknown {
			logger.Error("unhandled error",
				"err", err,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", RequestID(c),
			)
		}
		if c.Writer.Written() {
			return
		}
		status, body := Respond(err, development)
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery turns a panic into an unclassified error for ErrorHandler.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		_ = c.Error(dom.WithStack(fmt.Errorf("panic recovered: %v", recovered)))
		c.Abort()
	})
}
