package controller

import (
	"errors"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/service"
	"school_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	GradingService *service.GradingService
}

func NewSubmissionController(gradingService *service.GradingService) *SubmissionController {
	return &SubmissionController{GradingService: gradingService}
}

// ExerciseSubmitRequest 练习提交，测试结果由前端执行器带入
// swagger:model ExerciseSubmitRequest
type ExerciseSubmitRequest struct {
	Code    string             `json:"code" binding:"required"`
	Results []model.TestResult `json:"results" binding:"required"`
}

// SubmitExercise godoc
// @Summary 提交练习
// @Description 判分并记录一次练习提交，全部测试通过才算通过；首次通过发放 XP
// @Tags 提交
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "练习ID"
// @Param   body body ExerciseSubmitRequest true "代码与测试结果"
// @Success 201 {object} util.Response{data=model.ExerciseSubmission} "已记录"
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/exercises/{exerciseId}/submissions [post]
func (c *SubmissionController) SubmitExercise(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	exerciseID, ok := uintParam(ctx, "exerciseId")
	if !ok {
		return
	}
	var req ExerciseSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.GradingService.SubmitExercise(studentID, exerciseID, req.Code, req.Results)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, submission)
}

// ListExerciseSubmissions godoc
// @Summary 练习提交历史
// @Description 当前学生在某练习上的全部提交，最新在前
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   exerciseId path int true "练习ID"
// @Success 200 {object} util.Response{data=[]model.ExerciseSubmission} "成功"
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/exercises/{exerciseId}/submissions [get]
func (c *SubmissionController) ListExerciseSubmissions(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	exerciseID, ok := uintParam(ctx, "exerciseId")
	if !ok {
		return
	}

	submissions, err := c.GradingService.ListExerciseSubmissions(studentID, exerciseID)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submissions)
}

// QuizSubmitRequest 测验作答，键为题目ID、值为所选选项下标
// swagger:model QuizSubmitRequest
type QuizSubmitRequest struct {
	Answers map[uint]int `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交测验
// @Description 按答对题数判分，达到70%（向上取整）为通过；首次通过发放 XP
// @Tags 提交
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path int true "测验ID"
// @Param   body body QuizSubmitRequest true "作答"
// @Success 201 {object} util.Response{data=model.QuizSubmission} "已记录"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId}/submissions [post]
func (c *SubmissionController) SubmitQuiz(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}
	var req QuizSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.GradingService.SubmitQuiz(studentID, quizID, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, submission)
}

// ListQuizSubmissions godoc
// @Summary 测验提交历史
// @Description 当前学生在某测验上的全部提交，最新在前
// @Tags 提交
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizSubmission} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{quizId}/submissions [get]
func (c *SubmissionController) ListQuizSubmissions(ctx *gin.Context) {
	studentID, ok := currentStudent(ctx)
	if !ok {
		return
	}
	quizID, ok := uintParam(ctx, "quizId")
	if !ok {
		return
	}

	submissions, err := c.GradingService.ListQuizSubmissions(studentID, quizID)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submissions)
}
