package model

// Class 班级，仅持有成员与课程的关联，统计数据按需计算、不落库
// swagger:model Class
type Class struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	Grade     string `gorm:"size:50" json:"grade"`
	TeacherID uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassCourse 班级与课程的多对多关联
type ClassCourse struct {
	BaseModel
	ClassID  uint `gorm:"index:idx_class_course,unique;type:bigint unsigned;not null" json:"classId"`
	CourseID uint `gorm:"index:idx_class_course,unique;type:bigint unsigned;not null" json:"courseId"`
}

func (ClassCourse) TableName() string {
	return "class_courses"
}
