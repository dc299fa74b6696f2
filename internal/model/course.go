package model

// Course 课程，由若干章节组成
// swagger:model Course
type Course struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CoverURL    string `gorm:"size:255" json:"coverUrl"`
	Published   bool   `gorm:"default:false" json:"published"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Course) TableName() string {
	return "courses"
}

// Section 课程章节
// swagger:model Section
type Section struct {
	BaseModel
	CourseID uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (Section) TableName() string {
	return "sections"
}

// Lesson 课时，完成后按 XPReward 发放经验
// swagger:model Lesson
type Lesson struct {
	BaseModel
	SectionID uint   `gorm:"index;type:bigint unsigned;not null" json:"sectionId"`
	CourseID  uint   `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	XPReward  int    `gorm:"default:10" json:"xpReward"`
	Published bool   `gorm:"default:false" json:"published"`
	Order     int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
