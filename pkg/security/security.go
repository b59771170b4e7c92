package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	allowHeaders  = "Content-Type, Content-Length, Accept, Authorization, Origin, Cache-Control, X-Requested-With"
	allowMethods  = "GET, POST, OPTIONS"
	exposeHeaders = "Content-Disposition, X-Plan-Source"
	preflightAge  = 12 * time.Hour

	visitorSweepInterval = time.Minute
)

// CORS 只放行白名单中的前端来源。
// 计划下载需要前端读到文件名和来源，故暴露 Content-Disposition 和 X-Plan-Source。
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[strings.TrimRight(strings.TrimSpace(o), "/")] = struct{}{}
	}
	maxAge := strconv.Itoa(int(preflightAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		c.Writer.Header().Add("Vary", "Origin")

		if _, ok := originSet[origin]; origin != "" && ok {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Secure 常用安全响应头。生成的作品集和计划页面只在前端内嵌展示，禁止被别的站点 frame。
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitors 按客户端 IP 保存令牌桶
type visitors struct {
	mu     sync.Mutex
	store  map[string]*visitor
	limit  rate.Limit
	burst  int
	expiry time.Duration
}

func (v *visitors) get(key string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, ok := v.store[key]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.store[key] = vis
	}
	vis.lastSeen = now
	return vis.limiter
}

func (v *visitors) sweep(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ip, vis := range v.store {
		if now.Sub(vis.lastSeen) > v.expiry {
			delete(v.store, ip)
		}
	}
}

func (v *visitors) len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.store)
}

// RateLimiter 按 IP 限流，每个窗口最多 MaxRequests 次。
// MaxRequests 非正时不限流；窗口非正按 1 分钟算。
// exempt 中的路径（健康检查、指标）不计数。ctx 结束时停止清理协程。
func RateLimiter(ctx context.Context, cfg config.RateLimitConfig, exempt ...string) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	window := time.Duration(cfg.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}

	v := &visitors{
		store:  make(map[string]*visitor),
		limit:  rate.Every(window / time.Duration(cfg.MaxRequests)),
		burst:  cfg.MaxRequests,
		expiry: max(window*3, time.Minute),
	}
	go func() {
		ticker := time.NewTicker(visitorSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				v.sweep(now)
			}
		}
	}()

	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}

		if !v.get(c.ClientIP(), time.Now()).Allow() {
			util.Error(c, http.StatusTooManyRequests, "too many requests, please slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
