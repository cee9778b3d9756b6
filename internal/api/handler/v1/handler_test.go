package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/config"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/festival-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withSession(userID uint, role domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, userID)
		ctx.Set(middleware.ContextKeyRole, role)
		ctx.Next()
	}
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServiceErr(t *testing.T) {
	availableAt := time.Date(2026, 10, 3, 10, 30, 0, 0, time.UTC)
	lastVisitedAt := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"booth not found", service.ErrBoothNotFound, http.StatusNotFound},
		{"student not found", fmt.Errorf("wrapped -> %w", service.ErrStudentNotFound), http.StatusNotFound},
		{"post not found", service.ErrPostNotFound, http.StatusNotFound},
		{"booth access denied", service.ErrBoothAccessDenied, http.StatusForbidden},
		{"not visited", service.ErrNotVisited, http.StatusForbidden},
		{"wrong credentials", service.ErrWrongCredentials, http.StatusUnauthorized},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"account exists", service.ErrAccountExists, http.StatusConflict},
		{"duplicate award", &service.DuplicateAwardError{AvailableAt: availableAt}, http.StatusConflict},
		{"duplicate visit", &service.DuplicateVisitError{LastVisitedAt: lastVisitedAt}, http.StatusConflict},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serviceErr("op", tt.err).HTTPStatusCode)
		})
	}

	award := serviceErr("op", fmt.Errorf("tx -> %w", &service.DuplicateAwardError{AvailableAt: availableAt}))
	require.NotNil(t, award.AvailableAt)
	assert.True(t, award.AvailableAt.Equal(availableAt))

	visit := serviceErr("op", &service.DuplicateVisitError{LastVisitedAt: lastVisitedAt})
	require.NotNil(t, visit.LastVisitedAt)
	assert.True(t, visit.LastVisitedAt.Equal(lastVisitedAt))

	internal := serviceErr("op", errors.New("secret detail"))
	assert.NotContains(t, internal.ErrorText, "secret detail")
}

type fakeAuthService struct {
	account domain.Account
	err     error
}

func (f *fakeAuthService) SignupBoothManager(_ context.Context, signup service.BoothManagerSignup) (domain.ProvisionedAccount, error) {
	if f.err != nil {
		return domain.ProvisionedAccount{}, f.err
	}
	return domain.ProvisionedAccount{
		Account:   domain.Account{ID: 3, Role: domain.RoleBoothManager, Nickname: signup.Nickname},
		LoginCode: "ABCD2345",
		BoothID:   9,
	}, nil
}

func (f *fakeAuthService) Login(context.Context, string, string) (domain.Account, error) {
	return f.account, f.err
}

func authRouter(svc AuthService) (*gin.Engine, *config.APIConfig) {
	conf := &config.APIConfig{
		SessionSigningKey: "test-key",
		SessionTTLHours:   2,
		CookieName:        "festival_session",
	}
	h := NewAuthHandler(conf, svc)

	router := gin.New()
	router.POST("/auth/signup", h.HandleSignup)
	router.POST("/auth/login", h.HandleLogin)
	router.POST("/auth/logout", h.HandleLogout)

	return router, conf
}

func TestAuthHandler_Login(t *testing.T) {
	router, conf := authRouter(&fakeAuthService{account: domain.Account{ID: 5, Role: domain.RoleStudent, Nickname: "용감한 판다 12"}})

	w := doJSON(router, http.MethodPost, "/auth/login", `{"code":"abcd2345"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token   string         `json:"token"`
		Account domain.Account `json:"account"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(5), body.Account.ID)

	claims, err := jwthelper.ParseToken([]byte(conf.SessionSigningKey), body.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, "STUDENT", claims.Role)

	cookie := w.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.Equal(t, "festival_session", cookie[0].Name)
	assert.Equal(t, body.Token, cookie[0].Value)
	assert.True(t, cookie[0].HttpOnly)
	assert.Equal(t, 2*60*60, cookie[0].MaxAge)
}

func TestAuthHandler_LoginErrors(t *testing.T) {
	router, _ := authRouter(&fakeAuthService{err: service.ErrWrongCredentials})

	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodPost, "/auth/login", `{"code":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/auth/login", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/auth/login", `not json`).Code)
}

func TestAuthHandler_Signup(t *testing.T) {
	router, _ := authRouter(&fakeAuthService{})

	w := doJSON(router, http.MethodPost, "/auth/signup",
		`{"nickname":"부스장","password":"secret123","confirm_password":"secret123","booth_name":"떡볶이 부스"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"login_code":"ABCD2345"`)
	assert.Contains(t, w.Body.String(), `"booth_id":9`)

	w = doJSON(router, http.MethodPost, "/auth/signup",
		`{"nickname":"부스장","password":"short","confirm_password":"short","booth_name":"떡볶이 부스"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	router, _ = authRouter(&fakeAuthService{err: fmt.Errorf("s.accounts.CreateWithBooth -> %w", service.ErrAccountExists)})
	w = doJSON(router, http.MethodPost, "/auth/signup",
		`{"nickname":"부스장","password":"secret123","confirm_password":"secret123","booth_name":"떡볶이 부스"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	router, _ := authRouter(&fakeAuthService{})

	w := doJSON(router, http.MethodPost, "/auth/logout", "")
	require.Equal(t, http.StatusOK, w.Code)

	cookie := w.Result().Cookies()
	require.Len(t, cookie, 1)
	assert.Empty(t, cookie[0].Value)
	assert.True(t, cookie[0].MaxAge < 0)
}

type fakeRecorder struct {
	visitErr error
	awardErr error
}

func (f *fakeRecorder) RecordVisit(_ context.Context, studentID uint, payload string) (domain.VisitEntry, error) {
	if f.visitErr != nil {
		return domain.VisitEntry{}, f.visitErr
	}
	return domain.VisitEntry{VisitLog: domain.VisitLog{ID: 1, StudentID: studentID, BoothID: 2}, BoothName: payload}, nil
}

func (f *fakeRecorder) AwardPointsAsManager(context.Context, uint, string) (domain.PointEntry, error) {
	return domain.PointEntry{}, f.awardErr
}

func (f *fakeRecorder) ToggleHeart(context.Context, uint, uint) (domain.HeartToggle, error) {
	return domain.HeartToggle{Hearted: true, TotalHearts: 1}, nil
}

func (f *fakeRecorder) MyVisits(context.Context, uint) ([]domain.VisitEntry, error) {
	return []domain.VisitEntry{}, nil
}

func (f *fakeRecorder) RateBooth(_ context.Context, studentID, boothID uint, stars int) (domain.Rating, error) {
	return domain.Rating{BoothID: boothID, StudentID: studentID, Stars: stars}, nil
}

func recorderRouter(svc RecorderService) *gin.Engine {
	h := NewRecorderHandler(svc)

	router := gin.New()
	router.Use(withSession(11, domain.RoleStudent))
	router.POST("/visits", h.HandleRecordVisit)
	router.POST("/booths/me/points", h.HandleAwardPoints)
	router.POST("/posts/:postID/heart", h.HandleToggleHeart)
	router.PUT("/booths/:boothID/rating", h.HandleRateBooth)

	return router
}

func TestRecorderHandler_RecordVisit(t *testing.T) {
	w := doJSON(recorderRouter(&fakeRecorder{}), http.MethodPost, "/visits", `{"payload":"https://x/v/abc"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"student_id":11`)

	w = doJSON(recorderRouter(&fakeRecorder{}), http.MethodPost, "/visits", `{"payload":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	last := time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC)
	w = doJSON(recorderRouter(&fakeRecorder{visitErr: &service.DuplicateVisitError{LastVisitedAt: last}}), http.MethodPost, "/visits", `{"payload":"abc"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"last_visited_at":"2026-10-03T09:00:00Z"`)

	w = doJSON(recorderRouter(&fakeRecorder{visitErr: service.ErrBoothNotFound}), http.MethodPost, "/visits", `{"payload":"abc"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecorderHandler_AwardDuplicateCarriesAvailableAt(t *testing.T) {
	availableAt := time.Date(2026, 10, 3, 10, 30, 0, 0, time.UTC)
	router := recorderRouter(&fakeRecorder{awardErr: &service.DuplicateAwardError{AvailableAt: availableAt}})

	w := doJSON(router, http.MethodPost, "/booths/me/points", `{"payload":"student-token"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"available_at":"2026-10-03T10:30:00Z"`)
}

func TestRecorderHandler_Params(t *testing.T) {
	router := recorderRouter(&fakeRecorder{})

	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/posts/abc/heart", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/posts/4/heart", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPut, "/booths/2/rating", `{"stars":6}`).Code)

	w := doJSON(router, http.MethodPut, "/booths/2/rating", `{"stars":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stars":4`)
}

type fakeFeed struct {
	posts []domain.Post
	limit int
}

func (f *fakeFeed) ListPosts(_ context.Context, _, _ uint, limit int) ([]domain.Post, error) {
	f.limit = limit
	if len(f.posts) > limit {
		return f.posts[:limit], nil
	}
	return f.posts, nil
}

func (f *fakeFeed) CreatePost(_ context.Context, authorID uint, content string) (domain.Post, error) {
	return domain.Post{ID: 1, AuthorID: authorID, Content: content}, nil
}

func (f *fakeFeed) DeletePost(_ context.Context, actor domain.Account, _ uint) error {
	if actor.Role != domain.RoleAdmin {
		return service.ErrForbidden
	}
	return nil
}

type fakeUsers struct {
	role domain.Role
}

func (f fakeUsers) GetAccount(_ context.Context, id uint) (domain.Account, error) {
	return domain.Account{ID: id, Role: f.role}, nil
}

func feedRouter(svc FeedService, role domain.Role) *gin.Engine {
	h := NewFeedHandler(svc, fakeUsers{role: role})

	router := gin.New()
	router.Use(withSession(1, role))
	router.GET("/posts", h.HandleListPosts)
	router.POST("/posts", h.HandleCreatePost)
	router.DELETE("/posts/:postID", h.HandleDeletePost)

	return router
}

func TestFeedHandler_ListPostsPaging(t *testing.T) {
	feed := &fakeFeed{posts: []domain.Post{{ID: 9}, {ID: 8}, {ID: 7}}}
	router := feedRouter(feed, domain.RoleStudent)

	w := doJSON(router, http.MethodGet, "/posts?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"next_before":8`)
	assert.Equal(t, 2, feed.limit)

	w = doJSON(router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "next_before")
	assert.Equal(t, service.DefaultPageSize, feed.limit)

	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodGet, "/posts?limit=500", "").Code)
}

func TestFeedHandler_CreateAndDelete(t *testing.T) {
	router := feedRouter(&fakeFeed{}, domain.RoleStudent)

	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPost, "/posts", `{"content":"   "}`).Code)
	assert.Equal(t, http.StatusCreated, doJSON(router, http.MethodPost, "/posts", `{"content":"hello"}`).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(router, http.MethodDelete, "/posts/3", "").Code)

	router = feedRouter(&fakeFeed{}, domain.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, doJSON(router, http.MethodDelete, "/posts/3", "").Code)
}

func TestHandleHealthcheck(t *testing.T) {
	router := gin.New()
	router.GET("/", HandleHealthcheck)

	w := doJSON(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OK"}`, w.Body.String())
}

func TestGetUserFromContext_NoSession(t *testing.T) {
	router := gin.New()
	router.GET("/", func(ctx *gin.Context) {
		_, respErr := getUserFromContext(ctx, fakeUsers{})
		require.NotNil(t, respErr)
		ctx.Status(respErr.HTTPStatusCode)
	})

	assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/", "").Code)
}
