package service

import (
	"encoding/json"
	"math"

	"school_hub_backend/internal/event"
	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"
)

// 测验通过线：答对题数 >= ceil(70% * 题数)
const quizPassRatio = 0.7

// 题库与提交存储的窄接口，判分路径可脱离数据库测试
type ExerciseCatalog interface {
	FindByID(id uint) (*model.Exercise, error)
}

type QuizCatalog interface {
	FindByID(id uint) (*model.Quiz, error)
}

type ExerciseSubmissionStore interface {
	HasPassed(studentID, exerciseID uint) (bool, error)
	Create(sub *model.ExerciseSubmission) error
	ListByStudentAndExercise(studentID, exerciseID uint) ([]model.ExerciseSubmission, error)
}

type QuizSubmissionStore interface {
	HasPassed(studentID, quizID uint) (bool, error)
	Create(sub *model.QuizSubmission) error
	ListByStudentAndQuiz(studentID, quizID uint) ([]model.QuizSubmission, error)
}

// XPAwarder 判分通过后的发放入口
type XPAwarder interface {
	AwardXP(studentID uint, amount int, source string, sourceID *uint) error
}

// GradingService 练习与测验判分。提交记录只追加；XP 只在该学生对该题目的
// 首次通过时发放（查历史提交判定，不依赖缓存标志）。
type GradingService struct {
	ExerciseRepo    ExerciseCatalog
	ExerciseSubRepo ExerciseSubmissionStore
	QuizRepo        QuizCatalog
	QuizSubRepo     QuizSubmissionStore
	Xp              XPAwarder
	Bus             *event.Bus
}

func NewGradingService(
	exerciseRepo ExerciseCatalog,
	exerciseSubRepo ExerciseSubmissionStore,
	quizRepo QuizCatalog,
	quizSubRepo QuizSubmissionStore,
	xp XPAwarder,
	bus *event.Bus,
) *GradingService {
	return &GradingService{
		ExerciseRepo:    exerciseRepo,
		ExerciseSubRepo: exerciseSubRepo,
		QuizRepo:        quizRepo,
		QuizSubRepo:     quizSubRepo,
		Xp:              xp,
		Bus:             bus,
	}
}

// SubmitExercise 判分并持久化一条新提交。全部测试通过才算通过，无部分得分。
func (s *GradingService) SubmitExercise(studentID, exerciseID uint, code string, results []model.TestResult) (*model.ExerciseSubmission, error) {
	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	passed := allTestsPassed(results)

	xpEarned := 0
	if passed {
		// 首次通过判定在写入本次提交之前查历史，重试不会重复计
		alreadyPassed, err := s.ExerciseSubRepo.HasPassed(studentID, exerciseID)
		if err != nil {
			return nil, err
		}
		if !alreadyPassed {
			xpEarned = exercise.XPReward
		}
	}

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}
	submission := &model.ExerciseSubmission{
		StudentID:  studentID,
		ExerciseID: exerciseID,
		Code:       code,
		Results:    resultsJSON,
		Passed:     passed,
		XPEarned:   xpEarned,
	}
	if err := s.ExerciseSubRepo.Create(submission); err != nil {
		return nil, err
	}

	if xpEarned > 0 {
		sourceID := exercise.ID
		if err := s.Xp.AwardXP(studentID, xpEarned, model.XPSourceExercise+": "+exercise.Title, &sourceID); err != nil {
			return nil, err
		}
	}

	s.Bus.Publish(event.Event{Type: event.ExerciseSubmitted, StudentID: studentID, SourceID: exerciseID})
	if passed {
		s.Bus.Publish(event.Event{Type: event.ExercisePassed, StudentID: studentID, SourceID: exerciseID})
	}
	return submission, nil
}

// SubmitQuiz 测验判分。未作答/题号不匹配/下标越界都按答错计，不报错。
func (s *GradingService) SubmitQuiz(studentID, quizID uint, answers map[uint]int) (*model.QuizSubmission, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	score, maxScore, passed := scoreQuiz(quiz.Questions, answers)

	xpEarned := 0
	if passed {
		alreadyPassed, err := s.QuizSubRepo.HasPassed(studentID, quizID)
		if err != nil {
			return nil, err
		}
		if !alreadyPassed {
			xpEarned = quiz.XPReward
		}
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	submission := &model.QuizSubmission{
		StudentID: studentID,
		QuizID:    quizID,
		Answers:   answersJSON,
		Score:     score,
		MaxScore:  maxScore,
		Passed:    passed,
		XPEarned:  xpEarned,
	}
	if err := s.QuizSubRepo.Create(submission); err != nil {
		return nil, err
	}

	if xpEarned > 0 {
		sourceID := quiz.ID
		if err := s.Xp.AwardXP(studentID, xpEarned, model.XPSourceQuiz+": "+quiz.Title, &sourceID); err != nil {
			return nil, err
		}
	}

	s.Bus.Publish(event.Event{Type: event.QuizSubmitted, StudentID: studentID, SourceID: quizID})
	if passed {
		s.Bus.Publish(event.Event{Type: event.QuizPassed, StudentID: studentID, SourceID: quizID})
	}
	return submission, nil
}

// ListExerciseSubmissions 学生在某练习上的历史提交，最新在前
func (s *GradingService) ListExerciseSubmissions(studentID, exerciseID uint) ([]model.ExerciseSubmission, error) {
	if _, err := s.ExerciseRepo.FindByID(exerciseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return s.ExerciseSubRepo.ListByStudentAndExercise(studentID, exerciseID)
}

// ListQuizSubmissions 学生在某测验上的历史提交，最新在前
func (s *GradingService) ListQuizSubmissions(studentID, quizID uint) ([]model.QuizSubmission, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.QuizSubRepo.ListByStudentAndQuiz(studentID, quizID)
}

// allTestsPassed 全部测试结果都通过才算通过；空结果集不算通过
func allTestsPassed(results []model.TestResult) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// scoreQuiz 逐题比对选项下标。maxScore 取题目数。
func scoreQuiz(questions []model.QuizQuestion, answers map[uint]int) (score, maxScore int, passed bool) {
	maxScore = len(questions)
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if ok && selected == q.CorrectOption {
			score++
		}
	}
	passed = maxScore > 0 && score >= passThreshold(maxScore)
	return score, maxScore, passed
}

// passThreshold 70% 向上取整
func passThreshold(maxScore int) int {
	return int(math.Ceil(quizPassRatio * float64(maxScore)))
}
