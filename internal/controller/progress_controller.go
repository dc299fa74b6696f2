package controller

import (
	"errors"

	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
	StatsService    *service.StatsService
}

func NewProgressController(progressService *service.ProgressService, statsService *service.StatsService) *ProgressController {
	return &ProgressController{
		ProgressService: progressService,
		StatsService:    statsService,
	}
}

// StartLesson godoc
// @Summary 开始课时
// @Description 为当前学生创建课时进度记录，重复调用幂等
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonProgress} "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{lessonId}/start [post]
func (c *ProgressController) StartLesson(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	progress, err := c.ProgressService.StartLesson(lessonID, studentID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// CompleteLesson godoc
// @Summary 完成课时
// @Description 标记课时完成并发放 XP，重复调用不再发放
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=service.CompleteLessonResult} "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{lessonId}/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	result, err := c.ProgressService.CompleteLesson(lessonID, studentID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

type timeSpentRequest struct {
	Seconds int `json:"seconds" binding:"required,min=1"`
}

// UpdateTimeSpent godoc
// @Summary 累加课时学习时长
// @Description 在已有进度记录上累加学习秒数
// @Tags 学习进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Param   body body timeSpentRequest true "本次增加的秒数"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "进度记录不存在"
// @Router /api/lessons/{lessonId}/time [patch]
func (c *ProgressController) UpdateTimeSpent(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}
	var req timeSpentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateTimeSpent(lessonID, studentID, req.Seconds); err != nil {
		if errors.Is(err, util.ErrProgressNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// GetLessonProgress godoc
// @Summary 查询课时进度
// @Description 当前学生在某课时的进度，无记录时返回 not_started 视图
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonProgress} "成功"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{lessonId}/progress [get]
func (c *ProgressController) GetLessonProgress(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	lessonID, ok := uintParam(ctx, "lessonId")
	if !ok {
		return
	}

	progress, err := c.ProgressService.GetLessonProgress(lessonID, studentID)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// GetCourseProgress godoc
// @Summary 查询课程完成百分比
// @Description 当前学生在某课程的完成百分比及每课时进度明细
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgressDetail} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/students/me/courses/{courseId}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	detail, err := c.ProgressService.GetStudentCourseProgressDetail(studentID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}

// GetMySummary godoc
// @Summary 学生学习总览
// @Description 当前学生的 XP/等级/连续天数/课程进度汇总
// @Tags 学习进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentProgressSummary} "成功"
// @Router /api/students/me/progress [get]
func (c *ProgressController) GetMySummary(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
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
