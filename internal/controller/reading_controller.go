package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ReadingController struct {
	ReadingService *service.ReadingService
}

func NewReadingController(readingService *service.ReadingService) *ReadingController {
	return &ReadingController{ReadingService: readingService}
}

// MarkRead godoc
// @Summary 标记阅读小节已读
// @Tags 书籍
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Param section path int true "小节号"
// @Success 201 {object} util.Response{data=service.ReadingResult}
// @Failure 400 {object} util.Response "该小节有习题"
// @Failure 409 {object} util.Response "已读"
// @Router /api/chapters/{id}/sections/{section}/read [post]
func (c *ReadingController) MarkRead(ctx *gin.Context) {
	chapterID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	section, ok := paramID(ctx, "section")
	if !ok {
		return
	}

	result, err := c.ReadingService.MarkRead(ctx.Request.Context(), currentUserID(ctx), chapterID, int(section), time.Now())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
