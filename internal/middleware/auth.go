package middleware

import (
	"context"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/util"
	"project_assistant_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RevocationChecker 查询 token 是否已登出
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func AuthMiddleware(cfg *config.Config, revocations RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := util.BearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if revocations != nil {
			revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 不可用时放行，只记录日志
				logger.Log.Warn("token revocation check failed", zap.Error(err))
			} else if revoked {
				util.Error(c, 401, util.ErrTokenRevoked.Error())
				c.Abort()
				return
			}
		}

		c.Set("user", claims)
		c.Next()
	}
}
