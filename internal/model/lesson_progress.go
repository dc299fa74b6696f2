package model

import "time"

type LessonStatus string

const (
	LessonNotStarted LessonStatus = "not_started" // 无记录时的合成状态
	LessonInProgress LessonStatus = "in_progress"
	LessonCompleted  LessonStatus = "completed" // 终态，不可回退
)

// LessonProgress 每个(学生,课时)一条。completed 后状态不再回退，XPEarned 不再变化。
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	StudentID        uint         `gorm:"index:idx_student_lesson,unique;type:bigint unsigned;not null" json:"studentId"`
	LessonID         uint         `gorm:"index:idx_student_lesson,unique;type:bigint unsigned;not null" json:"lessonId"`
	Status           LessonStatus `gorm:"type:enum('in_progress','completed');default:'in_progress'" json:"status"`
	StartedAt        time.Time    `gorm:"not null" json:"startedAt"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty"`
	TimeSpentSeconds int          `gorm:"default:0" json:"timeSpentSeconds"` // 只增不减
	XPEarned         int          `gorm:"default:0" json:"xpEarned"`
}

func (LessonProgress) TableName() string {
	return "lesson_progresses"
}
