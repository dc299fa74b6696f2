package repository

import (
	"school_hub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Record 录入考勤。同一(班级,学生,日期)重复录入时以最新状态为准。
func (r *AttendanceRepository) Record(record *model.Attendance) error {
	err := r.DB.Create(record).Error
	if err != nil && isDuplicateKey(err) {
		return r.DB.Model(&model.Attendance{}).
			Where("class_id = ? AND student_id = ? AND date = ?",
				record.ClassID, record.StudentID, record.Date).
			Update("status", record.Status).Error
	}
	return err
}

// StatusCounts 窗口期内按状态统计的班级考勤数
type StatusCounts struct {
	Present int64
	Absent  int64
	Late    int64
	Excused int64
}

func (c StatusCounts) Total() int64 {
	return c.Present + c.Absent + c.Late + c.Excused
}

// CountByClassSince 出勤率分子分母的原始数据
func (r *AttendanceRepository) CountByClassSince(classID uint, since time.Time) (StatusCounts, error) {
	var rows []struct {
		Status model.AttendanceStatus
		Count  int64
	}
	err := r.DB.Model(&model.Attendance{}).
		Select("status, COUNT(*) as count").
		Where("class_id = ? AND date >= ?", classID, since).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return StatusCounts{}, err
	}

	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case model.AttendancePresent:
			counts.Present = row.Count
		case model.AttendanceAbsent:
			counts.Absent = row.Count
		case model.AttendanceLate:
			counts.Late = row.Count
		case model.AttendanceExcused:
			counts.Excused = row.Count
		}
	}
	return counts, nil
}

func (r *AttendanceRepository) ListByClassAndRange(classID uint, from, to time.Time) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.DB.Where("class_id = ? AND date BETWEEN ? AND ?", classID, from, to).
		Order("date DESC").Find(&records).Error
	return records, err
}
