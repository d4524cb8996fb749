package app

import (
	"context"
	"log"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/controller"
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/service"
	"mathtrack_backend/pkg/configwatcher"
	"mathtrack_backend/pkg/database"
	"mathtrack_backend/pkg/logger"
	"mathtrack_backend/pkg/monitoring"
	"mathtrack_backend/pkg/security"
	"mathtrack_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	ctx             context.Context
	cancel          context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	book        *repository.BookRepository
	submission  *repository.SubmissionRepository
	activity    *repository.ActivityLogRepository
	plan        *repository.WeeklyPlanRepository
	reading     *repository.ReadingSectionRepository
	bookRequest *repository.BookRequestRepository
	cache       *repository.CacheRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	companion   *service.CompanionService
	book        *service.BookService
	submission  *service.SubmissionService
	plan        *service.WeeklyPlanService
	reading     *service.ReadingService
	dashboard   *service.DashboardService
	leaderboard *service.LeaderboardService
	user        *service.UserService
	bookRequest *service.BookRequestService
	simulation  *service.SimulationService
	catalog     *service.CatalogService
}

type controllers struct {
	auth        *controller.AuthController
	book        *controller.BookController
	submission  *controller.SubmissionController
	reading     *controller.ReadingController
	plan        *controller.WeeklyPlanController
	dashboard   *controller.DashboardController
	user        *controller.UserController
	bookRequest *controller.BookRequestController
	catalog     *controller.CatalogController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		book:        repository.NewBookRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		activity:    repository.NewActivityLogRepository(db),
		plan:        repository.NewWeeklyPlanRepository(db),
		reading:     repository.NewReadingSectionRepository(db),
		bookRequest: repository.NewBookRequestRepository(db),
		cache:       repository.NewCacheRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.companion = service.NewCompanionService()
	s.auth = service.NewAuthService(repos.user, s.companion, cfg)
	s.book = service.NewBookService(repos.book, repos.submission, repos.reading)

	s.submission = service.NewSubmissionService(
		db,
		repos.user,
		repos.book,
		repos.submission,
		repos.activity,
		repos.plan,
		repos.cache,
		s.storage,
		s.companion,
	)

	s.plan = service.NewWeeklyPlanService(db, repos.plan, repos.book, repos.submission, repos.user, repos.cache)
	s.reading = service.NewReadingService(db, repos.book, repos.reading, repos.user, repos.activity, repos.cache)

	s.dashboard = service.NewDashboardService(
		repos.user,
		repos.book,
		repos.submission,
		repos.activity,
		s.book,
		s.plan,
		s.submission,
	)

	s.leaderboard = service.NewLeaderboardService(repos.user, repos.submission, repos.cache, cfg.Leaderboard)
	s.user = service.NewUserService(repos.user, repos.submission, s.dashboard, s.submission, s.companion)
	s.bookRequest = service.NewBookRequestService(repos.bookRequest)
	s.simulation = service.NewSimulationService(repos.user, repos.book, repos.submission, s.submission, cfg.Simulation)
	s.catalog = service.NewCatalogService(db, repos.book)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		book:        controller.NewBookController(s.book),
		submission:  controller.NewSubmissionController(s.submission, s.storage),
		reading:     controller.NewReadingController(s.reading),
		plan:        controller.NewWeeklyPlanController(s.plan),
		dashboard:   controller.NewDashboardController(s.dashboard, s.leaderboard),
		user:        controller.NewUserController(s.user, s.companion),
		bookRequest: controller.NewBookRequestController(s.bookRequest),
		catalog:     controller.NewCatalogController(s.catalog),
		health:      controller.NewHealthController(db, repos.cache),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 配置文件变更后需要热更新的部分
func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.leaderboard.UpdateConfig(cfg.Leaderboard)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.simulation.UpdateConfig(cfg.Simulation)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if cfg.RateLimit != a.Config.RateLimit {
			logger.Log.Warn("Rate limit changes take effect after restart",
				zap.Int("maxRequests", cfg.RateLimit.MaxRequests),
				zap.Int("windowMinutes", cfg.RateLimit.WindowMinutes))
		}
	})
}

func (a *App) reloadConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) startBackgroundTasks(s *services) {
	s.simulation.Start(a.ctx)

	if err := configwatcher.Watch(a.ctx, configDir, a.reloadConfig); err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式默认不迁移，需显式 -migrate
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Redis 不可用时排行榜缓存和提交锁降级
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	if cfg.MigrateOnly {
		return app
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("mathtrack-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.registerConfigCallbacks(services)
	app.startBackgroundTasks(services)

	return app
}

// SeedFakeUsers 创建模拟竞争者
func (a *App) SeedFakeUsers() (int, error) {
	return a.services.simulation.SeedFakeUsers()
}

// SeedCatalog 从书目文件导入书籍
func (a *App) SeedCatalog(path string) (*service.SeedResult, error) {
	catalog, err := service.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return a.services.catalog.Seed(a.ctx, catalog)
}

func (a *App) Close() {
	a.cancel()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Log.Sync()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 先停止后台任务
	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
