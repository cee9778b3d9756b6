package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/festival-api/internal/api"
	"github.com/vietanh2810/festival-api/internal/config"
	"github.com/vietanh2810/festival-api/internal/db"
	"github.com/vietanh2810/festival-api/internal/logger"
	"github.com/vietanh2810/festival-api/internal/metrics"
	"github.com/vietanh2810/festival-api/internal/pkg/ratelimit"
	"github.com/vietanh2810/festival-api/internal/repository/dao"
)

const poolStatsInterval = 15 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rateStore, err := newRateStore(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limit store -> %w", err)
	}

	s := api.NewServer(conf, postgresDB, rateStore)

	created, err := s.Auth.BootstrapAdmin(ctx, conf.Admin.BootstrapCode, conf.Admin.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin -> %w", err)
	}
	if created {
		zap.L().Info("bootstrap admin created")
	}

	go reportPoolStats(ctx, postgresDB, s.Metrics)
	go s.Live.Run(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func newRateStore(ctx context.Context, conf *config.AppConfig) (ratelimit.Store, error) {
	if conf.RateLimit.Backend != "redis" {
		return ratelimit.NewMemoryStore(conf.RateLimit.SweepThreshold), nil
	}

	client, err := db.OpenRedis(ctx, conf.Redis)
	if err != nil {
		return nil, err
	}
	zap.L().Info("rate limiting through redis", zap.String("addr", conf.Redis.Addr))

	return ratelimit.NewRedisStore(client), nil
}

func reportPoolStats(ctx context.Context, gormDB *gorm.DB, m *metrics.Metrics) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		zap.L().Warn("pool stats unavailable", zap.Error(err))
		return
	}

	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RecordDBPoolStats(sqlDB.Stats())
		}
	}
}
