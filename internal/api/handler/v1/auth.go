package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/config"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/festival-api/internal/service"
)

type AuthService interface {
	SignupBoothManager(ctx context.Context, signup service.BoothManagerSignup) (domain.ProvisionedAccount, error)
	Login(ctx context.Context, code, password string) (domain.Account, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignup godoc
// @Summary      Register a booth manager together with their booth
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   response.SignupResponse
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	provisioned, err := h.svc.SignupBoothManager(ctx.Request.Context(), service.BoothManagerSignup{
		Nickname:    req.Nickname,
		Password:    req.Password,
		BoothName:   req.BoothName,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleSignup -> h.svc.SignupBoothManager", err))
		return
	}

	ctx.JSON(http.StatusCreated, response.SignupResponse{
		Account:   provisioned.Account,
		LoginCode: provisioned.LoginCode,
		BoothID:   provisioned.BoothID,
	})
}

// HandleLogin godoc
// @Summary      Login with a login code
// @Description  Accounts created with a password must send it as well. The session token is returned and set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	account, err := h.svc.Login(ctx.Request.Context(), req.Code, req.Password)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleLogin -> h.svc.Login", err))
		return
	}

	ttl := time.Duration(h.conf.SessionTTLHours) * time.Hour
	token, err := jwthelper.GenerateToken([]byte(h.conf.SessionSigningKey), account.ID, string(account.Role), ttl)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(h.conf.CookieName, token, int(ttl/time.Second), "/", "", h.conf.CookieSecure, true)

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:   token,
		Account: account,
	})
}

// HandleLogout godoc
// @Summary      Clear the session cookie
// @Tags         auth
// @Produce      json
// @Success      200      {object}   response.Message
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(h.conf.CookieName, "", -1, "/", "", h.conf.CookieSecure, true)

	ctx.JSON(http.StatusOK, response.Message{Message: "logged out"})
}
