package response

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every error response.
type Err struct {
	HTTPStatusCode int `json:"-"`
	cause          error

	StatusText        string     `json:"status"`
	ErrorText         string     `json:"error,omitempty"`
	AvailableAt       *time.Time `json:"available_at,omitempty"`
	LastVisitedAt     *time.Time `json:"last_visited_at,omitempty"`
	RetryAfterSeconds int        `json:"retry_after_seconds,omitempty"`
	RequestID         string     `json:"request_id,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorText
}

// RenderErr aborts the request with e. Internal errors are logged here, with the request id,
// and their cause never reaches the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		e.RequestID = requestid.Get(ctx)
		zap.L().Error("internal server error",
			zap.Error(e.cause),
			zap.String("request_id", e.RequestID),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
		)
	}
	if e.RetryAfterSeconds > 0 {
		ctx.Header("Retry-After", strconv.Itoa(e.RetryAfterSeconds))
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Authentication required.",
		ErrorText:      err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials.",
		ErrorText:      err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(resource, field string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      fmt.Sprintf("%s with %s %v not found", resource, field, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

func ErrDuplicateVisit(lastVisitedAt time.Time) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Already visited.",
		ErrorText:      "this booth was already visited",
		LastVisitedAt:  &lastVisitedAt,
	}
}

func ErrDuplicateAward(availableAt time.Time) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Already awarded.",
		ErrorText:      "points were awarded recently",
		AvailableAt:    &availableAt,
	}
}

func ErrTooManyRequests(retryAfterSeconds int) *Err {
	return &Err{
		HTTPStatusCode:    http.StatusTooManyRequests,
		StatusText:        "Too many requests.",
		ErrorText:         fmt.Sprintf("retry in %d seconds", retryAfterSeconds),
		RetryAfterSeconds: retryAfterSeconds,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		cause:          err,
		StatusText:     "Internal server error.",
		ErrorText:      "something went wrong",
	}
}

func ErrResourceNotFound(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}
