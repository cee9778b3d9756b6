package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/service"
)

type FeedService interface {
	ListPosts(ctx context.Context, viewerID, beforeID uint, limit int) ([]domain.Post, error)
	CreatePost(ctx context.Context, authorID uint, content string) (domain.Post, error)
	DeletePost(ctx context.Context, actor domain.Account, id uint) error
}

type FeedHandler struct {
	svc  FeedService
	uSvc UserService
}

func NewFeedHandler(svc FeedService, uSvc UserService) *FeedHandler {
	return &FeedHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListPosts godoc
// @Summary      List posts, newest first
// @Description  Pass next_before from the previous page as before to continue.
// @Tags         feed
// @Produce      json
// @Param        before   query     int  false  "Only posts with a lower id"
// @Param        limit    query     int  false  "Page size (default 20, max 50)"
// @Success      200      {object}   response.PostsResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /posts [get]
// @Security     BearerAuth
func (h *FeedHandler) HandleListPosts(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var query request.ListPostsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	limit := query.Limit
	if limit <= 0 {
		limit = service.DefaultPageSize
	}

	posts, err := h.svc.ListPosts(ctx.Request.Context(), userID, query.Before, limit)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleListPosts -> h.svc.ListPosts", err))
		return
	}

	resp := response.PostsResponse{Posts: posts}
	if len(posts) == limit {
		next := posts[len(posts)-1].ID
		resp.NextBefore = &next
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleCreatePost godoc
// @Summary      Publish a post
// @Tags         feed
// @Accept       json
// @Produce      json
// @Param        request   body      request.CreatePostRequest true "request body"
// @Success      201      {object}   domain.Post
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      429      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /posts [post]
// @Security     BearerAuth
func (h *FeedHandler) HandleCreatePost(ctx *gin.Context) {
	userID, respErr := sessionUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	post, err := h.svc.CreatePost(ctx.Request.Context(), userID, req.Content)
	if err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleCreatePost -> h.svc.CreatePost", err))
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

// HandleDeletePost godoc
// @Summary      Delete a post
// @Description  Allowed to the author and to admins. The post's hearts are removed with it.
// @Tags         feed
// @Produce      json
// @Param        postID   path      int  true  "Post ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /posts/{postID} [delete]
// @Security     BearerAuth
func (h *FeedHandler) HandleDeletePost(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, respErr := parseIDParam(ctx, "postID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePost(ctx.Request.Context(), user, postID); err != nil {
		response.RenderErr(ctx, serviceErr("v1.HandleDeletePost -> h.svc.DeletePost", err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
