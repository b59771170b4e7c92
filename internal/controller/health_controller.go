package controller

import (
	"context"
	"net/http"
	"time"

	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	AppName    = "Smart Project Assistant"
	AppVersion = "3.5"

	healthCheckTimeout = 2 * time.Second
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// Root godoc
// @Summary 服务信息
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func (c *HealthController) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": AppName + " API v" + AppVersion})
}

// @Summary 健康检查
// @Description 检查数据库和 Redis 连接
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "依赖不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}
	if err := sqlDB.PingContext(checkCtx); err != nil {
		util.ServiceUnavailable(ctx, "Database unavailable")
		return
	}

	// Redis 未配置时视为可选组件
	redisStatus := "disabled"
	if c.Redis != nil {
		if err := c.Redis.Ping(checkCtx).Err(); err != nil {
			util.ServiceUnavailable(ctx, "Redis unavailable")
			return
		}
		redisStatus = "up"
	}

	util.Success(ctx, gin.H{
		"status":    "healthy",
		"version":   AppVersion,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": gin.H{
			"database": "up",
			"redis":    redisStatus,
		},
	})
}
