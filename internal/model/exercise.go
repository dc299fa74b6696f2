package model

import "encoding/json"

// Exercise 编程练习，全部测试通过才算通过（无部分得分）
// swagger:model Exercise
type Exercise struct {
	BaseModel
	LessonID    *uint  `gorm:"index;type:bigint unsigned" json:"lessonId,omitempty"`
	CourseID    uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Prompt      string `gorm:"type:text" json:"prompt"`
	StarterCode string `gorm:"type:text" json:"starterCode"`
	XPReward    int    `gorm:"default:15" json:"xpReward"`
	Published   bool   `gorm:"default:false" json:"published"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// TestResult 单个测试用例的判定结果
type TestResult struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// ExerciseSubmission 每次尝试一条，只追加，重试不覆盖历史
// swagger:model ExerciseSubmission
type ExerciseSubmission struct {
	BaseModel
	StudentID  uint            `gorm:"index:idx_exercise_student;type:bigint unsigned;not null" json:"studentId"`
	ExerciseID uint            `gorm:"index:idx_exercise_student;type:bigint unsigned;not null" json:"exerciseId"`
	Code       string          `gorm:"type:text" json:"code"`
	Results    json.RawMessage `gorm:"type:json" json:"results"` // JSON: []TestResult
	Passed     bool            `gorm:"default:false;index" json:"passed"`
	XPEarned   int             `gorm:"default:0" json:"xpEarned"` // 仅首次通过非零
}

func (ExerciseSubmission) TableName() string {
	return "exercise_submissions"
}
