package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/service"
)

var errNoSession = errors.New("no session in request context")

// UserService resolves the account behind a session.
type UserService interface {
	GetAccount(ctx context.Context, id uint) (domain.Account, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200      {object}   response.Message
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Message{Message: "OK"})
}

// getUserFromContext loads the account the session points at. A session whose account
// was deleted is treated as unauthenticated.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.Account, *response.Err) {
	userID, ok := middleware.UserIDFrom(ctx)
	if !ok {
		return domain.Account{}, response.ErrUnauthenticated(errNoSession)
	}

	user, err := svc.GetAccount(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return domain.Account{}, response.ErrUnauthenticated(err)
		}

		err = fmt.Errorf("getUserFromContext -> svc.GetAccount -> %w", err)
		return domain.Account{}, response.ErrInternalServerError(err)
	}

	return user, nil
}

func sessionUserID(ctx *gin.Context) (uint, *response.Err) {
	userID, ok := middleware.UserIDFrom(ctx)
	if !ok {
		return 0, response.ErrUnauthenticated(errNoSession)
	}
	return userID, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s: %q", name, ctx.Param(name)))
	}
	return uint(id), nil
}

// serviceErr translates a service error into its response. Anything unclassified becomes
// a 500 carrying op in its logged cause.
func serviceErr(op string, err error) *response.Err {
	var visitErr *service.DuplicateVisitError
	if errors.As(err, &visitErr) {
		return response.ErrDuplicateVisit(visitErr.LastVisitedAt)
	}
	var awardErr *service.DuplicateAwardError
	if errors.As(err, &awardErr) {
		return response.ErrDuplicateAward(awardErr.AvailableAt)
	}

	switch {
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrBoothNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return response.ErrResourceNotFound(err)
	case errors.Is(err, service.ErrBoothAccessDenied),
		errors.Is(err, service.ErrForbidden):
		return response.ErrPermissionDenied(err)
	case errors.Is(err, service.ErrWrongCredentials):
		return response.ErrWrongCredentials(err)
	case errors.Is(err, service.ErrInvalidInput):
		return response.ErrBadRequest(err)
	case errors.Is(err, service.ErrAccountExists):
		return response.ErrConflict(err)
	}

	return response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err))
}
