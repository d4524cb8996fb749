package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BookController struct {
	BookService *service.BookService
}

func NewBookController(bookService *service.BookService) *BookController {
	return &BookController{BookService: bookService}
}

// ListBooks godoc
// @Summary 书籍列表
// @Description 按分类和主题筛选，登录时附带个人进度
// @Tags 书籍
// @Produce json
// @Param category query string false "分类"
// @Param topic query string false "主题"
// @Success 200 {object} util.Response{data=[]service.BookSummary}
// @Router /api/books [get]
func (c *BookController) ListBooks(ctx *gin.Context) {
	books, err := c.BookService.ListBooks(currentUserID(ctx), ctx.Query("category"), ctx.Query("topic"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, books)
}

// GetBook godoc
// @Summary 书籍详情
// @Description 章节、小节和习题，附带完成状态和阅读小节
// @Tags 书籍
// @Produce json
// @Param slug path string true "书籍标识"
// @Success 200 {object} util.Response{data=service.BookDetail}
// @Failure 404 {object} util.Response
// @Router /api/books/{slug} [get]
func (c *BookController) GetBook(ctx *gin.Context) {
	detail, err := c.BookService.GetBookDetail(currentUserID(ctx), ctx.Param("slug"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// ChapterProgress godoc
// @Summary 章节进度
// @Tags 书籍
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/chapters/{id}/progress [get]
func (c *BookController) ChapterProgress(ctx *gin.Context) {
	chapterID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	progress, err := c.BookService.ChapterProgress(currentUserID(ctx), chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"chapterId": chapterID, "progress": progress})
}
