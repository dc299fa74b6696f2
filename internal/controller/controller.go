package controller

import (
	"strconv"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// uintParam 解析路径参数，非法时返回 (0, false) 并已写出 400
func uintParam(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentStudent 学生本人操作的主体ID；非学生角色拒绝
func currentStudent(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	if claims.Role != model.Student {
		util.Forbidden(ctx)
		return 0, false
	}
	return claims.UserID, true
}
