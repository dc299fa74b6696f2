package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

type SandboxRepository struct {
	DB *gorm.DB
}

func NewSandboxRepository(db *gorm.DB) *SandboxRepository {
	return &SandboxRepository{DB: db}
}

func (r *SandboxRepository) Create(project *model.SandboxProject) error {
	return r.DB.Create(project).Error
}

func (r *SandboxRepository) ListByStudent(studentID uint) ([]model.SandboxProject, error) {
	var projects []model.SandboxProject
	err := r.DB.Where("student_id = ?", studentID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *SandboxRepository) CountByStudent(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.SandboxProject{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}
