package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type AccountService interface {
	GetAccount(ctx context.Context, id uint) (domain.Account, error)
	GetProfile(ctx context.Context, id uint) (domain.Profile, error)
	RotateAccountQRToken(ctx context.Context, id uint) (string, error)
	RotateBoothQRToken(ctx context.Context, ownerID uint) (string, error)
}

type AccountHandler struct {
	svc AccountService
}

func NewAccountHandler(svc AccountService) *AccountHandler {
	return &AccountHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the caller's profile
// @Description  Students get their identifier, label, QR token and total points; booth managers get their booth.
// @Tags         accounts
// @Produce      json
// @Success      200      {object}   domain.Profile
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /me [get]
// @Security     BearerAuth
func (h *AccountHandler) HandleGetMe(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	profile, err := h.svc.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleGetMe -> h.svc.GetProfile", err))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// HandleRotateMyQRToken godoc
// @Summary      Replace the caller's QR token
// @Tags         accounts
// @Produce      json
// @Success      200      {object}   response.QRTokenResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /me/qr/rotate [post]
// @Security     BearerAuth
func (h *AccountHandler) HandleRotateMyQRToken(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.svc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token, err := h.svc.RotateAccountQRToken(ctx.Request.Context(), user.ID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRotateMyQRToken -> h.svc.RotateAccountQRToken", err))
		return
	}

	ctx.JSON(http.StatusOK, response.QRTokenResponse{QRToken: token})
}

// HandleRotateBoothQRToken godoc
// @Summary      Replace the QR token of the caller's booth
// @Tags         booths
// @Produce      json
// @Success      200      {object}   response.QRTokenResponse
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/me/qr/rotate [post]
// @Security     BearerAuth
func (h *AccountHandler) HandleRotateBoothQRToken(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	token, err := h.svc.RotateBoothQRToken(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRotateBoothQRToken -> h.svc.RotateBoothQRToken", err))
		return
	}

	ctx.JSON(http.StatusOK, response.QRTokenResponse{QRToken: token})
}
