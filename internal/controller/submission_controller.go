package controller

import (
	"mathtrack_backend/internal/model"
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
	StorageService    *service.StorageService
}

func NewSubmissionController(submissionService *service.SubmissionService, storageService *service.StorageService) *SubmissionController {
	return &SubmissionController{
		SubmissionService: submissionService,
		StorageService:    storageService,
	}
}

// Upload godoc
// @Summary 上传解答
// @Description 一个文件可以对应多道习题，已完成的题目会被跳过
// @Tags 提交
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "书籍标识"
// @Param exercises formData []int true "习题ID，可重复或逗号分隔"
// @Param solution_file formData file true "解答文件 (pdf/png/jpg/jpeg)"
// @Success 201 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "题目均已完成"
// @Failure 413 {object} util.Response "文件过大"
// @Router /api/books/{slug}/submissions [post]
func (c *SubmissionController) Upload(ctx *gin.Context) {
	userID := currentUserID(ctx)
	ids := util.ParseUintList(ctx.PostFormArray("exercises"))
	if len(ids) == 0 {
		respondError(ctx, util.ErrNoExercisesSelected)
		return
	}

	header, err := ctx.FormFile("solution_file")
	if err != nil {
		respondError(ctx, util.ErrNoFile)
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	filename, err := c.StorageService.SaveSolution(ctx.Request.Context(), userID, ids, header.Filename, header.Size, file)
	if err != nil {
		respondError(ctx, err)
		return
	}

	result, err := c.SubmissionService.Submit(ctx.Request.Context(), service.SubmitRequest{
		UserID:      userID,
		BookSlug:    ctx.Param("slug"),
		ExerciseIDs: ids,
		Filename:    filename,
		Source:      service.SourceUpload,
		Now:         time.Now(),
	})
	if err != nil {
		c.SubmissionService.DiscardUpload(ctx.Request.Context(), filename)
		respondError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

type MarkDoneRequest struct {
	ExerciseIDs []uint `json:"exerciseIds" binding:"required,min=1"`
}

// MarkDone godoc
// @Summary 标记完成
// @Description 不上传文件直接标记习题完成，计分规则与上传相同
// @Tags 提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "书籍标识"
// @Param body body MarkDoneRequest true "习题ID"
// @Success 201 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/books/{slug}/mark-done [post]
func (c *SubmissionController) MarkDone(ctx *gin.Context) {
	var req MarkDoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SubmissionService.Submit(ctx.Request.Context(), service.SubmitRequest{
		UserID:      currentUserID(ctx),
		BookSlug:    ctx.Param("slug"),
		ExerciseIDs: req.ExerciseIDs,
		Filename:    model.MarkedDoneFilename,
		Source:      service.SourceMarkDone,
		Now:         time.Now(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// Undo godoc
// @Summary 撤销提交
// @Description 删除提交并扣回积分，文件不再被引用时一并删除
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id} [delete]
func (c *SubmissionController) Undo(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := c.SubmissionService.Undo(ctx.Request.Context(), currentUserID(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// MyUploads godoc
// @Summary 我的上传
// @Tags 提交
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.UploadView}
// @Router /api/submissions/uploads [get]
func (c *SubmissionController) MyUploads(ctx *gin.Context) {
	uploads, err := c.SubmissionService.ListUploads(currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, uploads)
}
