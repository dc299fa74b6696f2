package controller

import (
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BadgeController 徽章目录管理（管理员）。授予本身由触发评估完成，
// 这里只维护目录条目。
type BadgeController struct {
	BadgeRepo *repository.BadgeRepository
}

func NewBadgeController(badgeRepo *repository.BadgeRepository) *BadgeController {
	return &BadgeController{BadgeRepo: badgeRepo}
}

// BadgeRequest 徽章目录条目
// swagger:model BadgeRequest
type BadgeRequest struct {
	Name         string             `json:"name" binding:"required"`
	Description  string             `json:"description"`
	Icon         string             `json:"icon"`
	TriggerType  model.BadgeTrigger `json:"triggerType" binding:"required"`
	TriggerValue int                `json:"triggerValue"`
	Active       *bool              `json:"active"`
}

// ListBadges godoc
// @Summary 徽章目录
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Badge} "成功"
// @Router /api/badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	badges, err := c.BadgeRepo.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// CreateBadge godoc
// @Summary 新建徽章
// @Description 阈值类触发器必须带 triggerValue
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BadgeRequest true "徽章定义"
// @Success 201 {object} util.Response{data=model.Badge} "创建成功"
// @Failure 400 {object} util.Response "触发器参数错误"
// @Router /api/badges [post]
func (c *BadgeController) CreateBadge(ctx *gin.Context) {
	var req BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.TriggerType.IsThreshold() && req.TriggerValue <= 0 {
		util.BadRequest(ctx, "triggerValue is required for threshold triggers")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	badge := &model.Badge{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		TriggerType:  req.TriggerType,
		TriggerValue: req.TriggerValue,
		Active:       active,
	}
	if err := c.BadgeRepo.Create(badge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, badge)
}

// UpdateBadge godoc
// @Summary 更新徽章
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   badgeId path int true "徽章ID"
// @Param   body body BadgeRequest true "徽章定义"
// @Success 200 {object} util.Response{data=model.Badge} "成功"
// @Failure 404 {object} util.Response "徽章不存在"
// @Router /api/badges/{badgeId} [put]
func (c *BadgeController) UpdateBadge(ctx *gin.Context) {
	badgeID, ok := uintParam(ctx, "badgeId")
	if !ok {
		return
	}
	var req BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.TriggerType.IsThreshold() && req.TriggerValue <= 0 {
		util.BadRequest(ctx, "triggerValue is required for threshold triggers")
		return
	}

	badge, err := c.BadgeRepo.FindByID(badgeID)
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	badge.Name = req.Name
	badge.Description = req.Description
	badge.Icon = req.Icon
	badge.TriggerType = req.TriggerType
	badge.TriggerValue = req.TriggerValue
	if req.Active != nil {
		badge.Active = *req.Active
	}
	if err := c.BadgeRepo.Update(badge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badge)
}
