package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	if err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) ListByCourse(courseID uint) ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := r.DB.Where("course_id = ? AND published = ?", courseID, true).
		Order("`order` ASC").Find(&exercises).Error
	return exercises, err
}
