package model

import "encoding/json"

// Quiz 测验，通过线为 70%（按题数取上整）
// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID  *uint          `gorm:"index;type:bigint unsigned" json:"lessonId,omitempty"`
	CourseID  uint           `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title     string         `gorm:"size:255;not null" json:"title"`
	XPReward  int            `gorm:"default:20" json:"xpReward"`
	Published bool           `gorm:"default:false" json:"published"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 单选题，CorrectOption 为正确选项下标
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint            `gorm:"index;type:bigint unsigned;not null" json:"quizId"`
	Text          string          `gorm:"type:text;not null" json:"text"`
	Options       json.RawMessage `gorm:"type:json" json:"options"` // JSON: []string
	CorrectOption int             `gorm:"not null" json:"-"`
	Order         int             `gorm:"default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizSubmission 每次作答一条，只追加，保留全部历史供复查
// swagger:model QuizSubmission
type QuizSubmission struct {
	BaseModel
	StudentID uint            `gorm:"index:idx_quiz_student;type:bigint unsigned;not null" json:"studentId"`
	QuizID    uint            `gorm:"index:idx_quiz_student;type:bigint unsigned;not null" json:"quizId"`
	Answers   json.RawMessage `gorm:"type:json" json:"answers"` // JSON: map[questionID]optionIndex
	Score     int             `gorm:"not null" json:"score"`
	MaxScore  int             `gorm:"not null" json:"maxScore"`
	Passed    bool            `gorm:"default:false;index" json:"passed"`
	XPEarned  int             `gorm:"default:0" json:"xpEarned"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
