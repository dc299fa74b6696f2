package controller

import (
	"errors"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserRepo    *repository.UserRepository
	ProfileRepo *repository.StudentProfileRepository
}

func NewAuthController(authService *service.AuthService, userRepo *repository.UserRepository, profileRepo *repository.StudentProfileRepository) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
	}
}

// Register godoc
// @Summary 注册新用户
// @Description 使用提供的信息注册新用户，学生用户自动创建学习档案
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "用户注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, 409, "该邮箱已被注册")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// Login godoc
// @Summary 用户登录
// @Description 验证用户身份并返回JWT令牌，学生登录计为一次学习活动
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "用户登录凭据"
// @Success 200 {object} util.Response{data=service.LoginResponse} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) || errors.Is(err, util.ErrUserDisabled) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, resp)
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Description 获取当前已认证用户的个人资料，学生附带 XP/等级/连续天数档案
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserRepo.FindByID(claims.UserID)
	if err != nil {
		util.Unauthorized(ctx)
		return
	}

	profile := gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"avatar":    user.Avatar,
		"role":      user.Role,
		"language":  user.Language,
		"createdAt": user.CreatedAt,
	}

	if user.Role == model.Student {
		if sp, err := c.ProfileRepo.FindByStudent(user.ID); err == nil {
			profile["totalXp"] = sp.TotalXP
			profile["currentLevel"] = sp.CurrentLevel
			profile["levelProgress"] = service.ProgressToNextLevel(sp.TotalXP)
			profile["currencyBalance"] = sp.CurrencyBalance
			profile["currentStreakDays"] = sp.CurrentStreakDays
			profile["longestStreak"] = sp.LongestStreak
			profile["classId"] = sp.ClassID
		}
	}

	util.Success(ctx, profile)
}
