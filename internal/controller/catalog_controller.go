package controller

import (
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	CatalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{CatalogService: catalogService}
}

// ImportCatalog godoc
// @Summary 导入书目（管理员）
// @Description 已存在的书籍按 slug 跳过
// @Tags 书籍
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.Catalog true "书目"
// @Success 201 {object} util.Response{data=service.SeedResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/catalog [post]
func (c *CatalogController) ImportCatalog(ctx *gin.Context) {
	var catalog service.Catalog
	if err := ctx.ShouldBindJSON(&catalog); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CatalogService.Seed(ctx.Request.Context(), &catalog)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}
