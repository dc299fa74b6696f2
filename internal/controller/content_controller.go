package controller

import (
	"encoding/json"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 课程内容编排（教师/管理员）：课程、章节、课时、练习、测验
type ContentController struct {
	CourseRepo   *repository.CourseRepository
	ExerciseRepo *repository.ExerciseRepository
	QuizRepo     *repository.QuizRepository
}

func NewContentController(
	courseRepo *repository.CourseRepository,
	exerciseRepo *repository.ExerciseRepository,
	quizRepo *repository.QuizRepository,
) *ContentController {
	return &ContentController{
		CourseRepo:   courseRepo,
		ExerciseRepo: exerciseRepo,
		QuizRepo:     quizRepo,
	}
}

type courseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	Published   bool   `json:"published"`
	Order       int    `json:"order"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body courseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Router /api/courses [post]
func (c *ContentController) CreateCourse(ctx *gin.Context) {
	var req courseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		Published:   req.Published,
		Order:       req.Order,
	}
	if err := c.CourseRepo.Create(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// ListCourses godoc
// @Summary 已发布课程列表
// @Tags 课程内容
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/courses [get]
func (c *ContentController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseRepo.ListPublished()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// sectionWithLessons 课程大纲中的一节及其已发布课时
type sectionWithLessons struct {
	model.Section
	Lessons []model.Lesson `json:"lessons"`
}

// GetCourse godoc
// @Summary 课程详情
// @Description 课程信息及大纲：章节、已发布课时、练习与测验
// @Tags 课程内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId} [get]
func (c *ContentController) GetCourse(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}

	course, err := c.CourseRepo.FindByID(courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	sections, err := c.CourseRepo.ListSections(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	outline := make([]sectionWithLessons, 0, len(sections))
	for _, section := range sections {
		lessons, err := c.CourseRepo.ListLessonsBySection(section.ID)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		outline = append(outline, sectionWithLessons{Section: section, Lessons: lessons})
	}

	exercises, err := c.ExerciseRepo.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	quizzes, err := c.QuizRepo.ListByCourse(courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":    course,
		"sections":  outline,
		"exercises": exercises,
		"quizzes":   quizzes,
	})
}

type sectionRequest struct {
	Title string `json:"title" binding:"required"`
	Order int    `json:"order"`
}

// CreateSection godoc
// @Summary 创建章节
// @Tags 课程内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body sectionRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Section} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId}/sections [post]
func (c *ContentController) CreateSection(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}
	var req sectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.CourseRepo.FindByID(courseID); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	section := &model.Section{CourseID: courseID, Title: req.Title, Order: req.Order}
	if err := c.CourseRepo.CreateSection(section); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

type lessonRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	XPReward  int    `json:"xpReward"`
	Published bool   `json:"published"`
	Order     int    `json:"order"`
}

// CreateLesson godoc
// @Summary 创建课时
// @Description XPReward 未指定时默认 10
// @Tags 课程内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   sectionId path int true "章节ID"
// @Param   body body lessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Failure 404 {object} util.Response "章节不存在"
// @Router /api/sections/{sectionId}/lessons [post]
func (c *ContentController) CreateLesson(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	var req lessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.CourseRepo.FindSection(sectionID)
	if err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	xp := req.XPReward
	if xp <= 0 {
		xp = 10
	}
	lesson := &model.Lesson{
		SectionID: sectionID,
		CourseID:  section.CourseID,
		Title:     req.Title,
		Content:   req.Content,
		XPReward:  xp,
		Published: req.Published,
		Order:     req.Order,
	}
	if err := c.CourseRepo.CreateLesson(lesson); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

type exerciseRequest struct {
	LessonID    *uint  `json:"lessonId"`
	Title       string `json:"title" binding:"required"`
	Prompt      string `json:"prompt"`
	StarterCode string `json:"starterCode"`
	XPReward    int    `json:"xpReward"`
	Published   bool   `json:"published"`
	Order       int    `json:"order"`
}

// CreateExercise godoc
// @Summary 创建练习
// @Tags 课程内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body exerciseRequest true "练习信息"
// @Success 201 {object} util.Response{data=model.Exercise} "创建成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId}/exercises [post]
func (c *ContentController) CreateExercise(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}
	var req exerciseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.CourseRepo.FindByID(courseID); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	xp := req.XPReward
	if xp <= 0 {
		xp = 15
	}
	exercise := &model.Exercise{
		LessonID:    req.LessonID,
		CourseID:    courseID,
		Title:       req.Title,
		Prompt:      req.Prompt,
		StarterCode: req.StarterCode,
		XPReward:    xp,
		Published:   req.Published,
		Order:       req.Order,
	}
	if err := c.ExerciseRepo.Create(exercise); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, exercise)
}

type quizQuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectOption int      `json:"correctOption"`
	Order         int      `json:"order"`
}

type quizRequest struct {
	LessonID  *uint                 `json:"lessonId"`
	Title     string                `json:"title" binding:"required"`
	XPReward  int                   `json:"xpReward"`
	Published bool                  `json:"published"`
	Questions []quizQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 题目随测验一并写入；correctOption 为选项下标
// @Tags 课程内容
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path int true "课程ID"
// @Param   body body quizRequest true "测验与题目"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "选项下标越界"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{courseId}/quizzes [post]
func (c *ContentController) CreateQuiz(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "courseId")
	if !ok {
		return
	}
	var req quizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if _, err := c.CourseRepo.FindByID(courseID); err != nil {
		if repository.IsNotFound(err) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	xp := req.XPReward
	if xp <= 0 {
		xp = 20
	}
	quiz := &model.Quiz{
		LessonID:  req.LessonID,
		CourseID:  courseID,
		Title:     req.Title,
		XPReward:  xp,
		Published: req.Published,
	}
	for i, q := range req.Questions {
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			util.BadRequest(ctx, "correctOption out of range")
			return
		}
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		order := q.Order
		if order == 0 {
			order = i
		}
		quiz.Questions = append(quiz.Questions, model.QuizQuestion{
			Text:          q.Text,
			Options:       optionsJSON,
			CorrectOption: q.CorrectOption,
			Order:         order,
		})
	}

	if err := c.QuizRepo.Create(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}
