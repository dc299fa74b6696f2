package repository

import (
	"school_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *BadgeRepository) Update(badge *model.Badge) error {
	return r.DB.Save(badge).Error
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *BadgeRepository) ListAll() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("id ASC").Find(&badges).Error
	return badges, err
}

// ListActiveByTrigger 某类动作对应的在用徽章
func (r *BadgeRepository) ListActiveByTrigger(triggers ...model.BadgeTrigger) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Where("active = ? AND trigger_type IN ?", true, triggers).Find(&badges).Error
	return badges, err
}

// Award 授予徽章。(student_id, badge_id) 唯一索引保证并发评估下只insert一条，
// 冲突按良性无操作处理。返回本次是否真的授出。
func (r *BadgeRepository) Award(studentID, badgeID uint) (bool, error) {
	sb := &model.StudentBadge{
		StudentID: studentID,
		BadgeID:   badgeID,
		EarnedAt:  time.Now(),
	}
	err := r.DB.Create(sb).Error
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *BadgeRepository) ListByStudent(studentID uint) ([]model.StudentBadge, error) {
	var earned []model.StudentBadge
	err := r.DB.Preload("Badge").
		Where("student_id = ?", studentID).
		Order("earned_at DESC").
		Find(&earned).Error
	return earned, err
}
