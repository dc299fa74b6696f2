package model

import "time"

type BadgeTrigger string

const (
	// 首次事件类徽章，不需要 TriggerValue
	TriggerFirstLogin    BadgeTrigger = "first_login"
	TriggerFirstLesson   BadgeTrigger = "first_lesson"
	TriggerFirstExercise BadgeTrigger = "first_exercise"
	TriggerFirstQuiz     BadgeTrigger = "first_quiz"
	TriggerFirstSandbox  BadgeTrigger = "first_sandbox"

	// 阈值类徽章，TriggerValue 必填
	TriggerLessonsCompleted BadgeTrigger = "lessons_completed"
	TriggerExercisesPassed  BadgeTrigger = "exercises_passed"
	TriggerCoursesFinished  BadgeTrigger = "courses_finished"
	TriggerLoginStreak      BadgeTrigger = "login_streak"
	TriggerXPEarned         BadgeTrigger = "xp_earned"
	TriggerLevelReached     BadgeTrigger = "level_reached"
)

// IsThreshold 阈值类触发器需要 TriggerValue
func (t BadgeTrigger) IsThreshold() bool {
	switch t {
	case TriggerLessonsCompleted, TriggerExercisesPassed, TriggerCoursesFinished,
		TriggerLoginStreak, TriggerXPEarned, TriggerLevelReached:
		return true
	}
	return false
}

// Badge 全局徽章目录
// swagger:model Badge
type Badge struct {
	BaseModel
	Name         string       `gorm:"size:100;not null" json:"name"`
	Description  string       `gorm:"size:255" json:"description"`
	Icon         string       `gorm:"size:255" json:"icon"`
	TriggerType  BadgeTrigger `gorm:"size:50;not null;index" json:"triggerType"`
	TriggerValue int          `gorm:"default:0" json:"triggerValue,omitempty"` // 阈值类必填，首次类为 0
	Active       bool         `gorm:"default:true" json:"active"`
}

func (Badge) TableName() string {
	return "badges"
}

// StudentBadge (学生,徽章) 唯一，徽章只授予一次
// swagger:model StudentBadge
type StudentBadge struct {
	BaseModel
	StudentID uint      `gorm:"index:idx_student_badge,unique;type:bigint unsigned;not null" json:"studentId"`
	BadgeID   uint      `gorm:"index:idx_student_badge,unique;type:bigint unsigned;not null" json:"badgeId"`
	EarnedAt  time.Time `gorm:"not null" json:"earnedAt"`
	Badge     *Badge    `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (StudentBadge) TableName() string {
	return "student_badges"
}
