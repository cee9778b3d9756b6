package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
	"github.com/vietanh2810/festival-api/internal/pkg/jwthelper"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyRole   = "role"
)

var (
	errMissingSession = errors.New("missing session token")
	errRoleForbidden  = errors.New("role not allowed")
)

type Authenticator struct {
	signingKey []byte
	cookieName string
}

func NewAuthenticator(signingKey, cookieName string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		cookieName: cookieName,
	}
}

// VerifySession accepts the session cookie or an "Authorization: Bearer" header.
func (a *Authenticator) VerifySession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := a.extractToken(ctx)
		if token == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingSession))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(jwthelper.ErrInvalidToken))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyRole, domain.Role(claims.Role))
		ctx.Next()
	}
}

func (a *Authenticator) extractToken(ctx *gin.Context) string {
	if header := ctx.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	if cookie, err := ctx.Cookie(a.cookieName); err == nil {
		return cookie
	}

	return ""
}

// RequireRole lets only the listed roles through. It must run after VerifySession.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, _ := RoleFrom(ctx)
		for _, r := range roles {
			if role == r {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("%w: %s", errRoleForbidden, role)))
	}
}

func UserIDFrom(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func RoleFrom(ctx *gin.Context) (domain.Role, bool) {
	v, ok := ctx.Get(ContextKeyRole)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}
