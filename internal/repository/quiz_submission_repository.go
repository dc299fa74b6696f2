package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizSubmissionRepository struct {
	DB *gorm.DB
}

func NewQuizSubmissionRepository(db *gorm.DB) *QuizSubmissionRepository {
	return &QuizSubmissionRepository{DB: db}
}

func (r *QuizSubmissionRepository) Create(submission *model.QuizSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *QuizSubmissionRepository) HasPassed(studentID, quizID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuizSubmission{}).
		Where("student_id = ? AND quiz_id = ? AND passed = ?", studentID, quizID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *QuizSubmissionRepository) ListByStudentAndQuiz(studentID, quizID uint) ([]model.QuizSubmission, error) {
	var submissions []model.QuizSubmission
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}
