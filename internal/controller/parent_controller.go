package controller

import (
	"errors"

	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ParentController 家长侧只读视图：关联的学生及其进度总览
type ParentController struct {
	UserRepo     *repository.UserRepository
	StatsService *service.StatsService
}

func NewParentController(userRepo *repository.UserRepository, statsService *service.StatsService) *ParentController {
	return &ParentController{UserRepo: userRepo, StatsService: statsService}
}

type parentLinkRequest struct {
	ParentID  uint `json:"parentId" binding:"required"`
	StudentID uint `json:"studentId" binding:"required"`
}

// LinkStudent godoc
// @Summary 关联家长与学生
// @Description 管理员维护的家长-学生关联，重复关联视为无操作
// @Tags 家长
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body parentLinkRequest true "关联双方"
// @Success 200 {object} util.Response "成功"
// @Router /api/parents/links [post]
func (c *ParentController) LinkStudent(ctx *gin.Context) {
	var req parentLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserRepo.LinkParent(req.ParentID, req.StudentID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListMyStudents godoc
// @Summary 当前家长关联的学生列表
// @Tags 家长
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/parents/me/students [get]
func (c *ParentController) ListMyStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	students, err := c.UserRepo.FindStudentsOfParent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// GetStudentSummary godoc
// @Summary 家长查看学生进度总览
// @Description 仅允许查看与当前家长有关联的学生
// @Tags 家长
// @Produce  json
// @Security ApiKeyAuth
// @Param   studentId path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentProgressSummary} "成功"
// @Failure 403 {object} util.Response "无关联"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/parents/me/students/{studentId}/progress [get]
func (c *ParentController) GetStudentSummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	studentID, ok := uintParam(ctx, "studentId")
	if !ok {
		return
	}

	linked, err := c.UserRepo.IsParentOf(claims.UserID, studentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !linked {
		util.Forbidden(ctx)
		return
	}

	summary, err := c.StatsService.GetStudentProgressSummary(studentID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summary)
}
