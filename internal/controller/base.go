package controller

import (
	"mathtrack_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 业务错误返回对应状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	status := util.StatusOf(err)
	if status == http.StatusInternalServerError {
		util.LogInternalError(ctx, err)
		return
	}
	util.Error(ctx, status, err.Error())
}

// currentUserID 未登录时返回 0
func currentUserID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id := util.MustParseUint(ctx.Param(name))
	if id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}
