package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

// ExerciseSubmissionRepository 提交记录只追加，重试产生新记录，历史保留供复查
type ExerciseSubmissionRepository struct {
	DB *gorm.DB
}

func NewExerciseSubmissionRepository(db *gorm.DB) *ExerciseSubmissionRepository {
	return &ExerciseSubmissionRepository{DB: db}
}

func (r *ExerciseSubmissionRepository) Create(submission *model.ExerciseSubmission) error {
	return r.DB.Create(submission).Error
}

// HasPassed 首次通过判定查真实提交记录，不依赖缓存标志，重试场景下仍然正确
func (r *ExerciseSubmissionRepository) HasPassed(studentID, exerciseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ExerciseSubmission{}).
		Where("student_id = ? AND exercise_id = ? AND passed = ?", studentID, exerciseID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *ExerciseSubmissionRepository) ListByStudentAndExercise(studentID, exerciseID uint) ([]model.ExerciseSubmission, error) {
	var submissions []model.ExerciseSubmission
	err := r.DB.Where("student_id = ? AND exercise_id = ?", studentID, exerciseID).
		Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}
