package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"mathtrack_backend/pkg/gamification"
	"time"

	"github.com/gin-gonic/gin"
)

type WeeklyPlanController struct {
	PlanService *service.WeeklyPlanService
}

func NewWeeklyPlanController(planService *service.WeeklyPlanService) *WeeklyPlanController {
	return &WeeklyPlanController{PlanService: planService}
}

// swagger:model CreatePlanRequest
type CreatePlanRequest struct {
	BookID         uint   `json:"bookId" binding:"required"`
	Mode           string `json:"mode" binding:"required,oneof=chapterwise subchapterwise own_pace"`
	StartChapterID uint   `json:"startChapterId"`
	DeadlineDay    string `json:"deadlineDay" binding:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	DeadlineHour   int    `json:"deadlineHour" binding:"min=0,max=23"`
	DeadlineMinute int    `json:"deadlineMinute" binding:"min=0,max=59"`
	CustomText     string `json:"customText"`
}

// CreatePlan godoc
// @Summary 创建周计划
// @Description 按章、按小节或自定进度，结束日期为开始后 7 天
// @Tags 周计划
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreatePlanRequest true "计划参数"
// @Success 201 {object} util.Response{data=model.WeeklyPlan}
// @Failure 400 {object} util.Response
// @Router /api/plans [post]
func (c *WeeklyPlanController) CreatePlan(ctx *gin.Context) {
	var req CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.Create(currentUserID(ctx), service.CreatePlanRequest{
		BookID:         req.BookID,
		Mode:           gamification.PlanMode(req.Mode),
		StartChapterID: req.StartChapterID,
		DeadlineDay:    req.DeadlineDay,
		DeadlineHour:   req.DeadlineHour,
		DeadlineMinute: req.DeadlineMinute,
		CustomText:     req.CustomText,
	}, time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, plan)
}

// ListPlans godoc
// @Summary 周计划列表
// @Tags 周计划
// @Produce json
// @Security ApiKeyAuth
// @Param active query bool false "只返回进行中的计划"
// @Success 200 {object} util.Response{data=[]service.PlanView}
// @Router /api/plans [get]
func (c *WeeklyPlanController) ListPlans(ctx *gin.Context) {
	var (
		plans []service.PlanView
		err   error
	)
	if ctx.Query("active") == "true" {
		plans, err = c.PlanService.Active(currentUserID(ctx), time.Now())
	} else {
		plans, err = c.PlanService.List(currentUserID(ctx), time.Now())
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plans)
}

// GetPlan godoc
// @Summary 周计划详情
// @Tags 周计划
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response{data=service.PlanView}
// @Failure 404 {object} util.Response
// @Router /api/plans/{id} [get]
func (c *WeeklyPlanController) GetPlan(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	plan, err := c.PlanService.Get(currentUserID(ctx), id, time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, plan)
}

// DeletePlan godoc
// @Summary 删除周计划
// @Description 扣回计划期间目标习题获得的积分，提交记录保留
// @Tags 周计划
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/plans/{id} [delete]
func (c *WeeklyPlanController) DeletePlan(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	deducted, err := c.PlanService.Delete(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "pointsDeducted": deducted})
}
