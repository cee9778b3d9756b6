package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type RecorderService interface {
	RecordVisit(ctx context.Context, studentID uint, payload string) (domain.VisitEntry, error)
	AwardPointsAsManager(ctx context.Context, managerID uint, payload string) (domain.PointEntry, error)
	ToggleHeart(ctx context.Context, postID, accountID uint) (domain.HeartToggle, error)
	MyVisits(ctx context.Context, studentID uint) ([]domain.VisitEntry, error)
	RateBooth(ctx context.Context, studentID, boothID uint, stars int) (domain.Rating, error)
}

type RecorderHandler struct {
	svc RecorderService
}

func NewRecorderHandler(svc RecorderService) *RecorderHandler {
	return &RecorderHandler{
		svc: svc,
	}
}

// HandleRecordVisit godoc
// @Summary      Record a booth visit
// @Description  The payload is whatever the student's scanner read from the booth QR code. A booth is credited once per student.
// @Tags         recorder
// @Accept       json
// @Produce      json
// @Param        request   body      request.ScanRequest true "request body"
// @Success      201      {object}   domain.VisitEntry
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err "carries last_visited_at"
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /visits [post]
// @Security     BearerAuth
func (h *RecorderHandler) HandleRecordVisit(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	visit, err := h.svc.RecordVisit(ctx.Request.Context(), userID, req.Payload)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRecordVisit -> h.svc.RecordVisit", err))
		return
	}

	ctx.JSON(http.StatusCreated, visit)
}

// HandleAwardPoints godoc
// @Summary      Award points to the student whose QR code was scanned
// @Description  Points come from the caller's booth. A student can be awarded by the same booth once per cooldown window.
// @Tags         recorder
// @Accept       json
// @Produce      json
// @Param        request   body      request.ScanRequest true "request body"
// @Success      201      {object}   domain.PointEntry
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err "carries available_at"
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/me/points [post]
// @Security     BearerAuth
func (h *RecorderHandler) HandleAwardPoints(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	award, err := h.svc.AwardPointsAsManager(ctx.Request.Context(), userID, req.Payload)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleAwardPoints -> h.svc.AwardPointsAsManager", err))
		return
	}

	ctx.JSON(http.StatusCreated, award)
}

// HandleToggleHeart godoc
// @Summary      Heart or un-heart a post
// @Tags         feed
// @Produce      json
// @Param        postID   path      int  true  "Post ID"
// @Success      200      {object}   domain.HeartToggle
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /posts/{postID}/heart [post]
// @Security     BearerAuth
func (h *RecorderHandler) HandleToggleHeart(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	toggle, err := h.svc.ToggleHeart(ctx.Request.Context(), postID, userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleToggleHeart -> h.svc.ToggleHeart", err))
		return
	}

	ctx.JSON(http.StatusOK, toggle)
}

// HandleMyVisits godoc
// @Summary      List the caller's booth visits, newest first
// @Tags         recorder
// @Produce      json
// @Success      200      {array}    domain.VisitEntry
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /me/visits [get]
// @Security     BearerAuth
func (h *RecorderHandler) HandleMyVisits(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	visits, err := h.svc.MyVisits(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleMyVisits -> h.svc.MyVisits", err))
		return
	}

	ctx.JSON(http.StatusOK, visits)
}

// HandleRateBooth godoc
// @Summary      Rate a visited booth
// @Description  Students can rate only booths they visited; rating again replaces the previous stars.
// @Tags         booths
// @Accept       json
// @Produce      json
// @Param        boothID   path      int  true  "Booth ID"
// @Param        request   body      request.RateBoothRequest true "request body"
// @Success      200      {object}   domain.Rating
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /booths/{boothID}/rating [put]
// @Security     BearerAuth
func (h *RecorderHandler) HandleRateBooth(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	boothID, respErr := parseIDParam(ctx, "boothID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RateBoothRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rating, err := h.svc.RateBooth(ctx.Request.Context(), userID, boothID, req.Stars)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleRateBooth -> h.svc.RateBooth", err))
		return
	}

	ctx.JSON(http.StatusOK, rating)
}
