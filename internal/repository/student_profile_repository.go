package repository

import (
	"school_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentProfileRepository struct {
	DB *gorm.DB
}

func NewStudentProfileRepository(db *gorm.DB) *StudentProfileRepository {
	return &StudentProfileRepository{DB: db}
}

func (r *StudentProfileRepository) Create(profile *model.StudentProfile) error {
	return r.DB.Create(profile).Error
}

func (r *StudentProfileRepository) FindByStudent(studentID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.DB.Where("user_id = ?", studentID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// LockByStudent 行锁读取，供需要"读旧值再覆盖"的连续天数更新在事务内使用
func (r *StudentProfileRepository) LockByStudent(tx *gorm.DB, studentID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", studentID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddXP 单条 UPDATE 内完成累加与等级覆盖，并发发放不丢更新
func (r *StudentProfileRepository) AddXP(tx *gorm.DB, studentID uint, amount, newLevel int) error {
	return tx.Model(&model.StudentProfile{}).
		Where("user_id = ?", studentID).
		Updates(map[string]interface{}{
			"total_xp":      gorm.Expr("total_xp + ?", amount),
			"current_level": newLevel,
		}).Error
}

// UpdateStreak 覆盖连续天数字段与最近活跃时间
func (r *StudentProfileRepository) UpdateStreak(tx *gorm.DB, studentID uint, current, longest int, at time.Time) error {
	return tx.Model(&model.StudentProfile{}).
		Where("user_id = ?", studentID).
		Updates(map[string]interface{}{
			"current_streak_days": current,
			"longest_streak":      longest,
			"last_activity_date":  at,
		}).Error
}

// AddCurrency 货币余额累加（升级奖励为正，后续商店消费为负）
func (r *StudentProfileRepository) AddCurrency(tx *gorm.DB, studentID uint, amount int) error {
	return tx.Model(&model.StudentProfile{}).
		Where("user_id = ?", studentID).
		Update("currency_balance", gorm.Expr("currency_balance + ?", amount)).Error
}

// Enroll 入班。已在目标班级时视为无操作。
func (r *StudentProfileRepository) Enroll(studentID, classID uint) error {
	return r.DB.Model(&model.StudentProfile{}).
		Where("user_id = ?", studentID).
		Update("class_id", classID).Error
}

func (r *StudentProfileRepository) ListByClass(classID uint) ([]model.StudentProfile, error) {
	var profiles []model.StudentProfile
	err := r.DB.Where("class_id = ?", classID).Find(&profiles).Error
	return profiles, err
}

// FindTopByXP 排行榜查询，按总 XP 降序
func (r *StudentProfileRepository) FindTopByXP(limit int) ([]model.StudentProfile, error) {
	var profiles []model.StudentProfile
	err := r.DB.Order("total_xp DESC").Limit(limit).Find(&profiles).Error
	return profiles, err
}
