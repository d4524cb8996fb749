package app

import (
	"mathtrack_backend/docs"
	"mathtrack_backend/internal/config"
	"mathtrack_backend/internal/middleware"
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由，登录后附带个人数据
	a.registerPublicRoutes(router, c, repos)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	a.registerStudentRoutes(authGroup, c)

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)

	// 本地存储的解答文件只对登录用户开放
	if cfg.Storage.Type == util.StorageLocal {
		uploads := router.Group("/uploads")
		uploads.Use(middleware.AuthMiddleware(cfg))
		uploads.Static("/", cfg.Storage.LocalPath)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/companions", c.user.ListCompanions)
	}

	optional := router.Group("/api")
	optional.Use(middleware.TryAuthMiddleware(a.Config), middleware.ActivityMiddleware(repos.user))
	{
		optional.GET("/books", c.book.ListBooks)
		optional.GET("/books/:slug", c.book.GetBook)
		optional.GET("/leaderboard", c.dashboard.GetLeaderboard)
		optional.GET("/users/:username", c.user.GetProfile)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.GET("/dashboard", c.dashboard.GetDashboard)
	rg.GET("/settings", c.user.GetSettings)
	rg.PUT("/settings", c.user.UpdateSettings)

	// 提交
	rg.POST("/books/:slug/submissions", c.submission.Upload)
	rg.POST("/books/:slug/mark-done", c.submission.MarkDone)
	rg.GET("/submissions/uploads", c.submission.MyUploads)
	rg.DELETE("/submissions/:id", c.submission.Undo)

	// 章节
	rg.GET("/chapters/:id/progress", c.book.ChapterProgress)
	rg.POST("/chapters/:id/sections/:section/read", c.reading.MarkRead)

	// 周计划
	rg.POST("/plans", c.plan.CreatePlan)
	rg.GET("/plans", c.plan.ListPlans)
	rg.GET("/plans/:id", c.plan.GetPlan)
	rg.DELETE("/plans/:id", c.plan.DeletePlan)

	// 书籍申请
	rg.POST("/book-requests", c.bookRequest.CreateRequest)
	rg.GET("/book-requests", c.bookRequest.MyRequests)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.RoleMiddleware(model.Admin),
		middleware.ActivityMiddleware(repos.user),
	)
	{
		admin.GET("/book-requests", c.bookRequest.ListRequests)
		admin.PUT("/book-requests/:id", c.bookRequest.ReviewRequest)
		admin.POST("/catalog", c.catalog.ImportCatalog)
	}
}
