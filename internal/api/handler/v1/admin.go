package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type ProvisioningService interface {
	ProvisionStudents(ctx context.Context, grade, classNumber, fromNumber, toNumber int) ([]domain.ProvisionedAccount, error)
	ProvisionBoothManagers(ctx context.Context, count int) ([]domain.ProvisionedAccount, error)
}

type StatsService interface {
	AdminStats(ctx context.Context) (domain.AdminStats, error)
}

type BoothRemover interface {
	DeleteBooth(ctx context.Context, id uint) error
}

type AdminHandler struct {
	accounts ProvisioningService
	stats    StatsService
	booths   BoothRemover
}

func NewAdminHandler(accounts ProvisioningService, stats StatsService, booths BoothRemover) *AdminHandler {
	return &AdminHandler{
		accounts: accounts,
		stats:    stats,
		booths:   booths,
	}
}

// HandleProvisionStudents godoc
// @Summary      Create the student accounts of one class
// @Description  Login codes are returned once, in clear, and never shown again.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.ProvisionStudentsRequest true "request body"
// @Success      201      {object}   response.ProvisionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/accounts/students [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleProvisionStudents(ctx *gin.Context) {
	var req request.ProvisionStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	accounts, err := h.accounts.ProvisionStudents(ctx.Request.Context(), req.Grade, req.ClassNumber, req.FromNumber, req.ToNumber)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleProvisionStudents -> h.accounts.ProvisionStudents", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.ProvisionResponse{Accounts: accounts})
}

// HandleProvisionBoothManagers godoc
// @Summary      Create booth manager accounts, each with an empty booth
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request   body      request.ProvisionBoothManagersRequest true "request body"
// @Success      201      {object}   response.ProvisionResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/accounts/booth-managers [post]
// @Security     BearerAuth
func (h *AdminHandler) HandleProvisionBoothManagers(ctx *gin.Context) {
	var req request.ProvisionBoothManagersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	accounts, err := h.accounts.ProvisionBoothManagers(ctx.Request.Context(), req.Count)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleProvisionBoothManagers -> h.accounts.ProvisionBoothManagers", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.ProvisionResponse{Accounts: accounts})
}

// HandleAdminStats godoc
// @Summary      Festival totals
// @Tags         admin
// @Produce      json
// @Success      200      {object}   domain.AdminStats
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/stats [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleAdminStats(ctx *gin.Context) {
	stats, err := h.stats.AdminStats(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleAdminStats -> h.stats.AdminStats", err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleDeleteBooth godoc
// @Summary      Delete a booth with its visits, awards and ratings
// @Tags         admin
// @Produce      json
// @Param        boothID   path      int  true  "Booth ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/booths/{boothID} [delete]
// @Security     BearerAuth
func (h *AdminHandler) HandleDeleteBooth(ctx *gin.Context) {
	boothID, respErr := parseIDParam(ctx, "boothID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.booths.DeleteBooth(ctx.Request.Context(), boothID); err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleDeleteBooth -> h.booths.DeleteBooth", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
