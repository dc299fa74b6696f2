package model

import "time"

// XP 来源标识，写入账本后不可修改
const (
	XPSourceLesson   = "lesson"
	XPSourceExercise = "exercise"
	XPSourceQuiz     = "quiz"
	XPSourceLogin    = "login"
	XPSourceManual   = "manual"
)

// XpTransaction XP 账本条目，只追加、不回滚、不编辑
// swagger:model XpTransaction
type XpTransaction struct {
	BaseModel
	StudentID uint      `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	Amount    int       `gorm:"not null" json:"amount"`
	Source    string    `gorm:"size:100;not null" json:"source"`
	SourceID  *uint     `gorm:"type:bigint unsigned" json:"sourceId,omitempty"`
	EarnedAt  time.Time `gorm:"not null;index" json:"earnedAt"`
}

func (XpTransaction) TableName() string {
	return "xp_transactions"
}
