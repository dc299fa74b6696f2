package controller

import (
	"errors"

	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SandboxController struct {
	SandboxService *service.SandboxService
}

func NewSandboxController(sandboxService *service.SandboxService) *SandboxController {
	return &SandboxController{SandboxService: sandboxService}
}

// CreateProject godoc
// @Summary 创建沙盒项目
// @Description 保存学生的自由编程项目，创建动作参与 first_sandbox 类徽章评估
// @Tags 沙盒
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.SandboxRequest true "项目内容"
// @Success 201 {object} util.Response{data=model.SandboxProject} "创建成功"
// @Failure 400 {object} util.Response "超出项目数量上限"
// @Router /api/sandbox/projects [post]
func (c *SandboxController) CreateProject(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	var req service.SandboxRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	project, err := c.SandboxService.Create(studentID, req)
	if err != nil {
		if errors.Is(err, util.ErrSandboxLimitReached) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, project)
}

// ListProjects godoc
// @Summary 当前学生的沙盒项目列表
// @Tags 沙盒
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.SandboxProject} "成功"
// @Router /api/sandbox/projects [get]
func (c *SandboxController) ListProjects(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	projects, err := c.SandboxService.List(studentID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, projects)
}
