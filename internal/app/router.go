package app

import (
	"net/http"

	"project_assistant_backend/docs"
	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/controller"
	"project_assistant_backend/internal/middleware"
	"project_assistant_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// route 路由表的一项，启动时统一注册一次
type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
}

func publicRoutes(c *controllers) []route {
	return []route{
		{http.MethodGet, "/health", c.health.HealthCheck},
		{http.MethodPost, "/register", c.auth.Register},
		{http.MethodPost, "/login", c.auth.Login},
		{http.MethodPost, "/evaluate", c.assistant.EvaluateProject},
	}
}

func authorizedRoutes(c *controllers) []route {
	return []route{
		// 会话
		{http.MethodPost, "/logout", c.auth.Logout},
		{http.MethodGet, "/session", c.auth.Session},

		// 档案与项目
		{http.MethodPost, "/profile", c.profile.SaveProfile},
		{http.MethodGet, "/profile", c.profile.GetProfile},
		{http.MethodPost, "/projects", c.project.AddProject},
		{http.MethodGet, "/projects", c.project.ListProjects},
		{http.MethodGet, "/projects/checklist", c.project.Checklist},

		// 项目计划
		{http.MethodPost, "/plan", c.plan.GeneratePlan},
		{http.MethodPost, "/plan/download", c.plan.DownloadPlan},

		// 生成工具
		{http.MethodPost, "/ideas", c.assistant.GenerateIdeas},
		{http.MethodPost, "/documentation", c.assistant.GenerateDocumentation},
		{http.MethodPost, "/code-snippet", c.assistant.GenerateCodeSnippet},
		{http.MethodPost, "/portfolio", c.portfolio.GeneratePortfolio},
		{http.MethodGet, "/portfolio", c.portfolio.GetPortfolio},

		// 技能练习
		{http.MethodPost, "/exercises", c.exercise.Recommend},
		{http.MethodGet, "/exercises/assigned", c.exercise.Assigned},
		{http.MethodPost, "/exercises/:type/complete", c.exercise.Complete},
		{http.MethodPost, "/skill-plan", c.exercise.SkillPlan},

		// 版本控制
		{http.MethodPost, "/version-control", c.versionControl.Help},
		{http.MethodGet, "/version-control/history", c.versionControl.History},
	}
}

func mount(rg *gin.RouterGroup, routes []route) {
	for _, r := range routes {
		rg.Handle(r.method, r.path, r.handler)
	}
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) error {
	if err := controller.RegisterValidators(); err != nil {
		return err
	}

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/", c.health.Root)

	// 1. 公共路由(无需登录)
	mount(router.Group("/api"), publicRoutes(c))

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, s.session))
	mount(authGroup, authorizedRoutes(c))

	return nil
}
