package repository

import (
	"school_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// UpdateLastLogin 登录时间戳，登录本身的连续天数更新走 XpService.TouchActivity
func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

// UpdateLastSeen 由 ActivityMiddleware 异步调用
func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// LinkParent 家长-学生关联，重复关联视为无操作
func (r *UserRepository) LinkParent(parentID, studentID uint) error {
	link := &model.ParentLink{ParentID: parentID, StudentID: studentID}
	err := r.DB.Create(link).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *UserRepository) IsParentOf(parentID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.ParentLink{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) FindStudentsOfParent(parentID uint) ([]model.User, error) {
	var students []model.User
	err := r.DB.Joins("JOIN parent_links ON parent_links.student_id = users.id").
		Where("parent_links.parent_id = ?", parentID).
		Find(&students).Error
	return students, err
}
