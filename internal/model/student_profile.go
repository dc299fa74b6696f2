package model

import "time"

// StudentProfile 每个学生一条，承载 XP/等级/货币/连续学习天数等聚合状态。
// 仅由 XP 账本、连续天数更新和入班操作修改；随学生用户创建，从不删除。
// swagger:model StudentProfile
type StudentProfile struct {
	BaseModel
	UserID            uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	ClassID           *uint      `gorm:"index;type:bigint unsigned" json:"classId,omitempty"`
	TotalXP           int        `gorm:"default:0" json:"totalXp"` // 单调递增，仅通过账本累加
	CurrentLevel      int        `gorm:"default:1" json:"currentLevel"`
	CurrencyBalance   int        `gorm:"default:0" json:"currencyBalance"`
	CurrentStreakDays int        `gorm:"default:0" json:"currentStreakDays"`
	LongestStreak     int        `gorm:"default:0" json:"longestStreak"`
	LastActivityDate  *time.Time `json:"lastActivityDate,omitempty"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
