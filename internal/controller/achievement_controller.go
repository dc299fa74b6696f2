package controller

import (
	"errors"
	"strconv"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
	Xp                 *service.XpService
}

func NewAchievementController(achievementService *service.AchievementService, xp *service.XpService) *AchievementController {
	return &AchievementController{AchievementService: achievementService, Xp: xp}
}

// GetMyAchievements godoc
// @Summary 当前学生的成就页
// @Description 已获徽章、最近 XP 历史与等级/连续天数快照
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentAchievements} "成功"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/students/me/achievements [get]
func (c *AchievementController) GetMyAchievements(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}

	achievements, err := c.AchievementService.GetStudentAchievements(studentID)
	if err != nil {
		if errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, achievements)
}

// GetLeaderboard godoc
// @Summary XP 排行榜
// @Description 按累计 XP 取前 N 名学生，结果缓存一分钟
// @Tags 成就
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "名次数，默认10，最大50"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry} "成功"
// @Router /api/achievements/leaderboard [get]
func (c *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 50 {
		limit = 50
	}

	entries, err := c.AchievementService.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

type grantXPRequest struct {
	Amount int    `json:"amount" binding:"required,min=1"`
	Reason string `json:"reason" binding:"required"`
}

// GrantXP godoc
// @Summary 手动发放 XP
// @Description 管理员补发/奖励 XP，记入账本但不影响连续天数
// @Tags 成就
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   studentId path int true "学生ID"
// @Param   body body grantXPRequest true "数额与事由"
// @Success 200 {object} util.Response "已发放"
// @Failure 404 {object} util.Response "学生档案不存在"
// @Router /api/students/{studentId}/xp [post]
func (c *AchievementController) GrantXP(ctx *gin.Context) {
	studentID, ok := uintParam(ctx, "studentId")
	if !ok {
		return
	}
	var req grantXPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Xp.AwardXPNoActivity(studentID, req.Amount, model.XPSourceManual+": "+req.Reason, nil)
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"studentId": studentID, "amount": req.Amount})
}
