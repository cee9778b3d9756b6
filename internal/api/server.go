package api

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/festival-api/docs"
	v1 "github.com/vietanh2810/festival-api/internal/api/handler/v1"
	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/config"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/metrics"
	"github.com/vietanh2810/festival-api/internal/pkg/ratelimit"
	"github.com/vietanh2810/festival-api/internal/repository"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
	"github.com/vietanh2810/festival-api/internal/service"
)

// Rate limiter actions. Each has its own rule under rate_limit.rules, "default" otherwise.
const (
	ActionSignup = "signup"
	ActionLogin  = "login"
	ActionVisit  = "visit"
	ActionAward  = "award"
	ActionPost   = "post"
	ActionHeart  = "heart"
	ActionRating = "rating"
)

type Server struct {
	Config  *config.AppConfig
	Router  *gin.Engine
	Metrics *metrics.Metrics
	Auth    *service.AuthService
	Live    *v1.LeaderboardHandler

	repos   repositories
	limiter *middleware.RateLimiter
}

type repositories struct {
	accounts *repository.AccountRepository
	booths   *repository.BoothRepository
	logs     *repository.LogRepository
	posts    *repository.PostRepository
	records  *repository.RecordRepository
}

func NewServer(conf *config.AppConfig, db *gorm.DB, rateStore ratelimit.Store) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:  conf,
		Router:  engine,
		Metrics: metrics.New(),
		repos: repositories{
			accounts: repository.NewAccountRepository(dao.NewAccountDAO(db)),
			booths:   repository.NewBoothRepository(dao.NewBoothDAO(db)),
			logs:     repository.NewLogRepository(dao.NewLogDAO(db)),
			posts:    repository.NewPostRepository(dao.NewPostDAO(db)),
			records:  repository.NewRecordRepository(dao.NewRecordDAO(db)),
		},
	}
	s.limiter = middleware.NewRateLimiter(rateStore, s.rateRule, s.Metrics)

	s.MountMiddlewares()

	s.Auth = s.initAuthService()
	authHandler := v1.NewAuthHandler(conf.API, s.Auth)
	accountService := s.initAccountService()
	dashboardService := s.initDashboardService()
	boothService := service.NewBoothService(s.repos.booths)

	handlers := handlerSet{
		auth:        authHandler,
		account:     v1.NewAccountHandler(accountService),
		recorder:    s.initRecorderHandler(),
		booth:       v1.NewBoothHandler(boothService, dashboardService),
		feed:        v1.NewFeedHandler(service.NewFeedService(s.repos.posts), accountService),
		admin:       v1.NewAdminHandler(accountService, dashboardService, boothService),
		leaderboard: s.initLeaderboardHandler(dashboardService),
	}
	s.Live = handlers.leaderboard
	s.MountHandlers(handlers)

	return s
}

type handlerSet struct {
	auth        *v1.AuthHandler
	account     *v1.AccountHandler
	recorder    *v1.RecorderHandler
	booth       *v1.BoothHandler
	feed        *v1.FeedHandler
	admin       *v1.AdminHandler
	leaderboard *v1.LeaderboardHandler
}

func (s *Server) rateRule(action string) ratelimit.Rule {
	rule := s.Config.RateLimit.Rule(action)

	return ratelimit.Rule{
		Limit:  rule.Limit,
		Window: time.Duration(rule.WindowMs) * time.Millisecond,
	}
}

func (s *Server) initAuthService() *service.AuthService {
	return service.NewAuthService(s.repos.accounts, s.repos.booths, s.Config.Festival.TokenRetries)
}

func (s *Server) initAccountService() *service.AccountService {
	return service.NewAccountService(s.repos.accounts, s.repos.booths, s.repos.logs, s.Config.Festival.TokenRetries)
}

func (s *Server) initDashboardService() *service.DashboardService {
	festival := s.Config.Festival

	return service.NewDashboardService(s.repos.booths, s.repos.logs, s.repos.accounts, s.repos.posts, service.DashboardConfig{
		TrendingWindow:       time.Duration(festival.TrendingWindowMinutes) * time.Minute,
		TrendingTopK:         festival.TrendingTopK,
		TrendingRatingWeight: festival.TrendingRatingWeight,
		RecentLimit:          festival.DashboardRecentLimit,
	})
}

func (s *Server) initRecorderHandler() *v1.RecorderHandler {
	svc := service.NewRecorderService(s.repos.records, s.repos.booths, s.repos.logs, service.RecorderConfig{
		AwardPoints:        s.Config.Festival.AwardPoints,
		AwardWindowMinutes: s.Config.Festival.AwardWindowMinutes,
	}, s.Metrics)
	handler := v1.NewRecorderHandler(svc)

	return handler
}

func (s *Server) initLeaderboardHandler(svc v1.TrendingService) *v1.LeaderboardHandler {
	interval := time.Duration(s.Config.Festival.LiveLeaderboardIntervalSeconds) * time.Second
	handler := v1.NewLeaderboardHandler(svc, s.Metrics, interval, s.Config.API.AllowedCORSDomains)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(s.Metrics.Middleware())
}

func (s *Server) MountHandlers(h handlerSet) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.SessionSigningKey, s.Config.API.CookieName)
	students := middleware.RequireRole(domain.RoleStudent)
	managers := middleware.RequireRole(domain.RoleBoothManager)
	admins := middleware.RequireRole(domain.RoleAdmin)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", s.limiter.Limit(ActionSignup), h.auth.HandleSignup)
		auth.POST("/auth/login", s.limiter.Limit(ActionLogin), h.auth.HandleLogin)
		auth.POST("/auth/logout", h.auth.HandleLogout)
	}

	signedIn := s.Router.Group(basePath, authenticator.VerifySession())
	{
		signedIn.GET("/me", h.account.HandleGetMe)
		signedIn.POST("/me/qr/rotate", h.account.HandleRotateMyQRToken)
		signedIn.GET("/me/visits", students, h.recorder.HandleMyVisits)

		signedIn.POST("/visits", students, s.limiter.Limit(ActionVisit), h.recorder.HandleRecordVisit)

		signedIn.GET("/booths", h.booth.HandleListBooths)
		signedIn.GET("/booths/:boothID", h.booth.HandleGetBooth)
		signedIn.PUT("/booths/:boothID/rating", students, s.limiter.Limit(ActionRating), h.recorder.HandleRateBooth)
		signedIn.POST("/booths/me/points", managers, s.limiter.Limit(ActionAward), h.recorder.HandleAwardPoints)
		signedIn.GET("/booths/me/dashboard/visits", managers, h.booth.HandleVisitDashboard)
		signedIn.GET("/booths/me/dashboard/points", managers, h.booth.HandlePointDashboard)
		signedIn.POST("/booths/me/qr/rotate", managers, h.account.HandleRotateBoothQRToken)

		signedIn.GET("/leaderboard/trending", h.leaderboard.HandleTrending)
		signedIn.GET("/leaderboard/live", h.leaderboard.HandleLive)

		signedIn.GET("/posts", h.feed.HandleListPosts)
		signedIn.POST("/posts", s.limiter.Limit(ActionPost), h.feed.HandleCreatePost)
		signedIn.DELETE("/posts/:postID", h.feed.HandleDeletePost)
		signedIn.POST("/posts/:postID/heart", s.limiter.Limit(ActionHeart), h.recorder.HandleToggleHeart)
	}

	admin := s.Router.Group(basePath+"/admin", authenticator.VerifySession(), admins)
	{
		admin.POST("/accounts/students", h.admin.HandleProvisionStudents)
		admin.POST("/accounts/booth-managers", h.admin.HandleProvisionBoothManagers)
		admin.GET("/stats", h.admin.HandleAdminStats)
		admin.DELETE("/booths/:boothID", h.admin.HandleDeleteBooth)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", s.Metrics.Handler())

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "School Festival API"
	docs.SwaggerInfo.Description = "Booth visits, point awards, feed and leaderboard for the school festival."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
