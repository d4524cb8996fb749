package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService   *service.DashboardService
	LeaderboardService *service.LeaderboardService
}

func NewDashboardController(dashboardService *service.DashboardService, leaderboardService *service.LeaderboardService) *DashboardController {
	return &DashboardController{
		DashboardService:   dashboardService,
		LeaderboardService: leaderboardService,
	}
}

// GetDashboard godoc
// @Summary 个人仪表盘
// @Description 统计、徽章、活动日历、进行中的周计划和最近提交
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.Get(currentUserID(ctx), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetLeaderboard godoc
// @Summary 排行榜
// @Description 只包含愿意出现在排行榜上的用户，附带队伍汇总
// @Tags 仪表盘
// @Produce json
// @Param sort query string false "排序方式" Enums(total_exercises, points, streak, longest_streak, week_exercises, month_exercises, year_exercises)
// @Success 200 {object} util.Response{data=service.Leaderboard}
// @Router /api/leaderboard [get]
func (c *DashboardController) GetLeaderboard(ctx *gin.Context) {
	board, err := c.LeaderboardService.Get(ctx.Request.Context(), ctx.Query("sort"), currentUserID(ctx), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, board)
}
