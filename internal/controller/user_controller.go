package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService      *service.UserService
	CompanionService *service.CompanionService
}

func NewUserController(userService *service.UserService, companionService *service.CompanionService) *UserController {
	return &UserController{
		UserService:      userService,
		CompanionService: companionService,
	}
}

// GetProfile godoc
// @Summary 用户主页
// @Description 按隐私设置返回可见的部分，本人始终可见全部
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 403 {object} util.Response "主页未公开"
// @Failure 404 {object} util.Response
// @Router /api/users/{username} [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	profile, err := c.UserService.GetProfile(currentUserID(ctx), ctx.Param("username"), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// GetSettings godoc
// @Summary 获取设置
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Settings}
// @Router /api/settings [get]
func (c *UserController) GetSettings(ctx *gin.Context) {
	settings, err := c.UserService.GetSettings(currentUserID(ctx), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// UpdateSettings godoc
// @Summary 更新设置
// @Description 只更新提交的字段，昵称每 30 天只能修改一次
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateSettingsRequest true "设置"
// @Success 200 {object} util.Response{data=service.Settings}
// @Failure 400 {object} util.Response
// @Failure 429 {object} util.Response "昵称修改过于频繁"
// @Router /api/settings [put]
func (c *UserController) UpdateSettings(ctx *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.UserService.UpdateSettings(currentUserID(ctx), req, time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// ListCompanions godoc
// @Summary 学习伙伴列表
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=[]service.Companion}
// @Router /api/companions [get]
func (c *UserController) ListCompanions(ctx *gin.Context) {
	util.Success(ctx, c.CompanionService.List())
}
