package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"project_assistant_backend/internal/config"
	"project_assistant_backend/internal/controller"
	"project_assistant_backend/internal/repository"
	"project_assistant_backend/internal/service"
	"project_assistant_backend/pkg/database"
	"project_assistant_backend/pkg/logger"
	"project_assistant_backend/pkg/monitoring"
	"project_assistant_backend/pkg/security"
	"project_assistant_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider

	// ctx 随服务关闭取消，后台协程以此退出
	ctx    context.Context
	cancel context.CancelFunc

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user           *repository.UserRepository
	profile        *repository.ProfileRepository
	projectHistory *repository.ProjectHistoryRepository
	skillExercise  *repository.SkillExerciseRepository
	portfolio      *repository.PortfolioRepository
	versionControl *repository.VersionControlRepository
}

type services struct {
	auth           *service.AuthService
	session        *service.SessionService
	storage        *service.StorageService
	ai             *service.AIService
	remotePlanner  *service.RemotePlanSource
	plan           *service.PlanService
	profile        *service.ProfileService
	project        *service.ProjectService
	exercise       *service.ExerciseService
	idea           *service.IdeaService
	documentation  *service.DocumentationService
	codeSnippet    *service.CodeSnippetService
	versionControl *service.VersionControlService
	portfolio      *service.PortfolioService
}

type controllers struct {
	auth           *controller.AuthController
	profile        *controller.ProfileController
	project        *controller.ProjectController
	plan           *controller.PlanController
	assistant      *controller.AssistantController
	exercise       *controller.ExerciseController
	versionControl *controller.VersionControlController
	portfolio      *controller.PortfolioController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件变更后由 configwatcher 调用，只刷新可热更新的部分
func (a *App) ReloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded", zap.Int("callbacks", len(callbacks)))
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:           repository.NewUserRepository(db),
		profile:        repository.NewProfileRepository(db),
		projectHistory: repository.NewProjectHistoryRepository(db),
		skillExercise:  repository.NewSkillExerciseRepository(db),
		portfolio:      repository.NewPortfolioRepository(db),
		versionControl: repository.NewVersionControlRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.session = service.NewSessionService(repos.user, repos.profile, repos.projectHistory, rdb)

	s.ai = service.NewAIService(cfg.AI)
	s.remotePlanner = service.NewRemotePlanSource(cfg.Backend)
	s.plan = service.NewPlanService(
		s.remotePlanner,
		service.NewAIPlanSource(s.ai),
		service.LocalPlanSource{},
	)

	s.exercise = service.NewExerciseService(repos.skillExercise, s.ai, rdb)
	s.profile = service.NewProfileService(repos.profile, s.exercise)
	s.project = service.NewProjectService(repos.projectHistory, repos.profile)
	s.idea = service.NewIdeaService(s.ai)
	s.documentation = service.NewDocumentationService(s.ai, s.storage)
	s.codeSnippet = service.NewCodeSnippetService(s.ai)
	s.versionControl = service.NewVersionControlService(repos.versionControl, s.ai)
	s.portfolio = service.NewPortfolioService(repos.portfolio, s.ai, s.storage)

	// 模型和规划服务地址支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		s.remotePlanner.UpdateConfig(newCfg.Backend)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth, s.session),
		profile:        controller.NewProfileController(s.profile),
		project:        controller.NewProjectController(s.project),
		plan:           controller.NewPlanController(s.plan, s.storage),
		assistant:      controller.NewAssistantController(s.idea, s.documentation, s.codeSnippet),
		exercise:       controller.NewExerciseController(s.exercise),
		versionControl: controller.NewVersionControlController(s.versionControl),
		portfolio:      controller.NewPortfolioController(s.portfolio),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit, "/api/health", "/metrics"))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if err := app.registerRoutes(router, controllers, services, cfg); err != nil {
		logger.Log.Fatal("Failed to register routes", zap.Error(err))
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm)
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
