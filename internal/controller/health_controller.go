package controller

import (
	"mathtrack_backend/internal/repository"
	"mathtrack_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Cache *repository.CacheRepository
}

func NewHealthController(db *gorm.DB, cache *repository.CacheRepository) *HealthController {
	return &HealthController{DB: db, Cache: cache}
}

// @Summary 健康检查
// @Description 检查数据库和 Redis 状态，Redis 不可用时服务降级但仍可用
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	redisStatus := "up"
	if c.Cache == nil || c.Cache.Redis == nil {
		redisStatus = "disabled"
	} else if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
		redisStatus = "down"
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"redis":    redisStatus,
		},
	})
}
