package repository

import (
	"school_hub_backend/internal/model"

	"gorm.io/gorm"
)

// XP 历史按学生最多保留的条数
const XPHistoryLimit = 100

type XpTransactionRepository struct {
	DB *gorm.DB
}

func NewXpTransactionRepository(db *gorm.DB) *XpTransactionRepository {
	return &XpTransactionRepository{DB: db}
}

func (r *XpTransactionRepository) Append(tx *gorm.DB, txn *model.XpTransaction) error {
	return tx.Create(txn).Error
}

// Trim 删除超出保留上限的最旧条目，保证账本视图只含最近 XPHistoryLimit 条
func (r *XpTransactionRepository) Trim(tx *gorm.DB, studentID uint) error {
	var cutoff struct{ ID uint }
	err := tx.Model(&model.XpTransaction{}).
		Select("id").
		Where("student_id = ?", studentID).
		Order("id DESC").
		Offset(XPHistoryLimit - 1).
		Limit(1).
		Scan(&cutoff).Error
	if err != nil || cutoff.ID == 0 {
		return err
	}
	return tx.Unscoped().
		Where("student_id = ? AND id < ?", studentID, cutoff.ID).
		Delete(&model.XpTransaction{}).Error
}

// ListRecent 最新在前
func (r *XpTransactionRepository) ListRecent(studentID uint, limit int) ([]model.XpTransaction, error) {
	if limit <= 0 || limit > XPHistoryLimit {
		limit = XPHistoryLimit
	}
	var txns []model.XpTransaction
	err := r.DB.Where("student_id = ?", studentID).
		Order("earned_at DESC, id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}
