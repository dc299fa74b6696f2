package controller

import (
	"errors"
	"time"

	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
	StatsService *service.StatsService
}

func NewClassController(classService *service.ClassService, statsService *service.StatsService) *ClassController {
	return &ClassController{
		ClassService: classService,
		StatsService: statsService,
	}
}

// CreateClass godoc
// @Summary 创建班级
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ClassRequest true "班级信息"
// @Success 201 {object} util.Response{data=model.Class} "创建成功"
// @Router /api/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req service.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.CreateClass(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

type assignCourseRequest struct {
	CourseID uint `json:"courseId" binding:"required"`
}

// AssignCourse godoc
// @Summary 为班级绑定课程
// @Description 重复绑定同一课程视为无操作
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Param   body body assignCourseRequest true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{classId}/courses [post]
func (c *ClassController) AssignCourse(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}
	var req assignCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.AssignCourse(classID, req.CourseID); err != nil {
		if errors.Is(err, util.ErrClassNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

type enrollRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

// EnrollStudent godoc
// @Summary 学生入班
// @Description 学生至多属于一个班级，重复入同一班级视为无操作
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Param   body body enrollRequest true "学生ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "班级或学生不存在"
// @Router /api/classes/{classId}/students [post]
func (c *ClassController) EnrollStudent(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}
	var req enrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.EnrollStudent(classID, req.StudentID); err != nil {
		if errors.Is(err, util.ErrClassNotFound) || errors.Is(err, util.ErrStudentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// RecordAttendance godoc
// @Summary 录入考勤
// @Description 同一学生同一天重复录入时以最新状态为准
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Param   body body service.AttendanceRequest true "考勤记录"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "日期格式错误"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{classId}/attendance [post]
func (c *ClassController) RecordAttendance(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}
	var req service.AttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.RecordAttendance(classID, req); err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidDate):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrClassNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ListAttendance godoc
// @Summary 查询考勤记录
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Param   from query string false "起始日期 YYYY-MM-DD，默认30天前"
// @Param   to query string false "结束日期 YYYY-MM-DD，默认今天"
// @Success 200 {object} util.Response{data=[]model.Attendance} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{classId}/attendance [get]
func (c *ClassController) ListAttendance(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := ctx.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			util.BadRequest(ctx, util.ErrInvalidDate.Error())
			return
		}
		from = parsed
	}
	if raw := ctx.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			util.BadRequest(ctx, util.ErrInvalidDate.Error())
			return
		}
		to = parsed
	}

	records, err := c.ClassService.ListAttendance(classID, from, to)
	if err != nil {
		if errors.Is(err, util.ErrClassNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, records)
}

// GetClassStats godoc
// @Summary 班级仪表盘统计
// @Description 人数、平均进度、平均XP、近30天出勤率与最近活跃时间
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Success 200 {object} util.Response{data=service.ClassStats} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{classId}/stats [get]
func (c *ClassController) GetClassStats(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}

	stats, err := c.StatsService.ComputeClassStats(classID)
	if err != nil {
		if errors.Is(err, util.ErrClassNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, stats)
}

// GetClassCourses godoc
// @Summary 班级课程列表
// @Description 每门课程附带全班平均完成度
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId path int true "班级ID"
// @Success 200 {object} util.Response{data=[]service.CourseProgress} "成功"
// @Failure 404 {object} util.Response "班级不存在"
// @Router /api/classes/{classId}/courses [get]
func (c *ClassController) GetClassCourses(ctx *gin.Context) {
	classID, ok := uintParam(ctx, "classId")
	if !ok {
		return
	}

	courses, err := c.StatsService.GetClassCoursesWithProgress(classID)
	if err != nil {
		if errors.Is(err, util.ErrClassNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, courses)
}
