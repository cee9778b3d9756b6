package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/pkg/ratelimit"
)

type RejectObserver interface {
	RecordRateLimited(action string)
}

// RateLimiter throttles write paths per action and client address.
type RateLimiter struct {
	store    ratelimit.Store
	rules    func(action string) ratelimit.Rule
	observer RejectObserver
}

func NewRateLimiter(store ratelimit.Store, rules func(action string) ratelimit.Rule, observer RejectObserver) *RateLimiter {
	return &RateLimiter{
		store:    store,
		rules:    rules,
		observer: observer,
	}
}

// Limit keys the counter as "<action>:<client ip>". A failing store lets the request through.
func (l *RateLimiter) Limit(action string) gin.HandlerFunc {
	rule := l.rules(action)

	return func(ctx *gin.Context) {
		result, err := l.store.Allow(ctx.Request.Context(), action+":"+ctx.ClientIP(), rule)
		if err != nil {
			zap.L().Warn("rate limit store failed", zap.String("action", action), zap.Error(err))
			ctx.Next()
			return
		}

		if !result.Allowed {
			if l.observer != nil {
				l.observer.RecordRateLimited(action)
			}
			response.RenderErr(ctx, response.ErrTooManyRequests(result.RetryAfterSeconds))
			return
		}

		ctx.Next()
	}
}
