package service

import (
	"time"

	"school_hub_backend/internal/model"
	"school_hub_backend/internal/repository"
	"school_hub_backend/internal/util"
)

// ClassService 班级成员与课程关联、考勤录入。统计视图见 StatsService。
type ClassService struct {
	ClassRepo      *repository.ClassRepository
	ProfileRepo    *repository.StudentProfileRepository
	AttendanceRepo *repository.AttendanceRepository
}

func NewClassService(
	classRepo *repository.ClassRepository,
	profileRepo *repository.StudentProfileRepository,
	attendanceRepo *repository.AttendanceRepository,
) *ClassService {
	return &ClassService{
		ClassRepo:      classRepo,
		ProfileRepo:    profileRepo,
		AttendanceRepo: attendanceRepo,
	}
}

type ClassRequest struct {
	Name      string `json:"name" binding:"required"`
	Grade     string `json:"grade"`
	TeacherID uint   `json:"teacherId"`
}

type AttendanceRequest struct {
	StudentID uint                   `json:"studentId" binding:"required"`
	Date      string                 `json:"date" binding:"required"` // YYYY-MM-DD
	Status    model.AttendanceStatus `json:"status" binding:"required,oneof=present absent late excused"`
}

func (s *ClassService) CreateClass(req ClassRequest) (*model.Class, error) {
	class := &model.Class{Name: req.Name, Grade: req.Grade, TeacherID: req.TeacherID}
	if err := s.ClassRepo.Create(class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) GetClass(classID uint) (*model.Class, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

// AssignCourse 绑定课程到班级，重复绑定视为无操作
func (s *ClassService) AssignCourse(classID, courseID uint) error {
	if _, err := s.GetClass(classID); err != nil {
		return err
	}
	return s.ClassRepo.AssignCourse(classID, courseID)
}

// EnrollStudent 学生入班。学生至多属于一个班级，重复入同一班级无操作。
func (s *ClassService) EnrollStudent(classID, studentID uint) error {
	if _, err := s.GetClass(classID); err != nil {
		return err
	}
	profile, err := s.ProfileRepo.FindByStudent(studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			return util.ErrStudentNotFound
		}
		return err
	}
	if profile.ClassID != nil && *profile.ClassID == classID {
		return nil
	}
	return s.ProfileRepo.Enroll(studentID, classID)
}

// RecordAttendance 录入考勤，同一(班级,学生,日期)重复录入以最新状态为准
func (s *ClassService) RecordAttendance(classID uint, req AttendanceRequest) error {
	if _, err := s.GetClass(classID); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return util.ErrInvalidDate
	}
	return s.AttendanceRepo.Record(&model.Attendance{
		ClassID:   classID,
		StudentID: req.StudentID,
		Date:      date,
		Status:    req.Status,
	})
}

// ListAttendance 查询某日范围的考勤记录
func (s *ClassService) ListAttendance(classID uint, from, to time.Time) ([]model.Attendance, error) {
	if _, err := s.GetClass(classID); err != nil {
		return nil, err
	}
	return s.AttendanceRepo.ListByClassAndRange(classID, from, to)
}
