package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type BoothService interface {
	ListBooths(ctx context.Context) ([]domain.BoothSummary, error)
	GetBooth(ctx context.Context, id uint) (domain.BoothSummary, error)
}

type DashboardService interface {
	VisitDashboard(ctx context.Context, managerID uint) (domain.BoothVisitDashboard, error)
	PointDashboard(ctx context.Context, managerID uint) (domain.BoothPointDashboard, error)
}

type BoothHandler struct {
	svc       BoothService
	dashboard DashboardService
}

func NewBoothHandler(svc BoothService, dashboard DashboardService) *BoothHandler {
	return &BoothHandler{
		svc:       svc,
		dashboard: dashboard,
	}
}

// HandleListBooths godoc
// @Summary      List booths with their rating summary
// @Tags         booths
// @Produce      json
// @Success      200      {array}    domain.BoothSummary
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths [get]
// @Security     BearerAuth
func (h *BoothHandler) HandleListBooths(ctx *gin.Context) {
	booths, err := h.svc.ListBooths(ctx.Request.Context())
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleListBooths -> h.svc.ListBooths", err))
		return
	}

	ctx.JSON(http.StatusOK, booths)
}

// HandleGetBooth godoc
// @Summary      Get one booth
// @Tags         booths
// @Produce      json
// @Param        boothID   path      int  true  "Booth ID"
// @Success      200      {object}   domain.BoothSummary
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/{boothID} [get]
// @Security     BearerAuth
func (h *BoothHandler) HandleGetBooth(ctx *gin.Context) {
	boothID, respErr := parseIDParam(ctx, "boothID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booth, err := h.svc.GetBooth(ctx.Request.Context(), boothID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleGetBooth -> h.svc.GetBooth", err))
		return
	}

	ctx.JSON(http.StatusOK, booth)
}

// HandleVisitDashboard godoc
// @Summary      Visit summary of the caller's booth
// @Tags         booths
// @Produce      json
// @Success      200      {object}   domain.BoothVisitDashboard
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/me/dashboard/visits [get]
// @Security     BearerAuth
func (h *BoothHandler) HandleVisitDashboard(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	dashboard, err := h.dashboard.VisitDashboard(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleVisitDashboard -> h.dashboard.VisitDashboard", err))
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}

// HandlePointDashboard godoc
// @Summary      Point award summary of the caller's booth
// @Tags         booths
// @Produce      json
// @Success      200      {object}   domain.BoothPointDashboard
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/me/dashboard/points [get]
// @Security     BearerAuth
func (h *BoothHandler) HandlePointDashboard(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	dashboard, err := h.dashboard.PointDashboard(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandlePointDashboard -> h.dashboard.PointDashboard", err))
		return
	}

	ctx.JSON(http.StatusOK, dashboard)
}
