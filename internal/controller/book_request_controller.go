package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BookRequestController struct {
	RequestService *service.BookRequestService
}

func NewBookRequestController(requestService *service.BookRequestService) *BookRequestController {
	return &BookRequestController{RequestService: requestService}
}

// CreateRequest godoc
// @Summary 申请添加书籍
// @Tags 书籍申请
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateBookRequest true "书籍信息"
// @Success 201 {object} util.Response{data=model.BookRequest}
// @Failure 400 {object} util.Response
// @Router /api/book-requests [post]
func (c *BookRequestController) CreateRequest(ctx *gin.Context) {
	var req service.CreateBookRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.RequestService.Create(currentUserID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, request)
}

// MyRequests godoc
// @Summary 我的书籍申请
// @Tags 书籍申请
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.BookRequest}
// @Router /api/book-requests [get]
func (c *BookRequestController) MyRequests(ctx *gin.Context) {
	requests, err := c.RequestService.ListMine(currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// ListRequests godoc
// @Summary 书籍申请列表（管理员）
// @Tags 书籍申请
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "状态" Enums(pending, approved, rejected)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Failure 403 {object} util.Response
// @Router /api/admin/book-requests [get]
func (c *BookRequestController) ListRequests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	requests, total, err := c.RequestService.List(ctx.Query("status"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  requests,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

type ReviewRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReviewRequest godoc
// @Summary 审核书籍申请（管理员）
// @Tags 书籍申请
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "申请ID"
// @Param body body ReviewRequest true "approved 或 rejected"
// @Success 200 {object} util.Response{data=model.BookRequest}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/book-requests/{id} [put]
func (c *BookRequestController) ReviewRequest(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.RequestService.Review(id, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, request)
}
