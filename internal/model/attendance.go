package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// Attendance 每个(班级,学生,日期)一条考勤记录
// swagger:model Attendance
type Attendance struct {
	BaseModel
	ClassID   uint             `gorm:"index:idx_class_student_date,unique;type:bigint unsigned;not null" json:"classId"`
	StudentID uint             `gorm:"index:idx_class_student_date,unique;type:bigint unsigned;not null" json:"studentId"`
	Date      time.Time        `gorm:"index:idx_class_student_date,unique;type:date;not null" json:"date"`
	Status    AttendanceStatus `gorm:"type:enum('present','absent','late','excused');not null" json:"status"`
}

func (Attendance) TableName() string {
	return "attendances"
}
